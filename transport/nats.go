package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSObjectStore is a Transport backed by a JetStream object store bucket,
// letting teammates push/pull index bundles through a shared NATS server
// instead of ad hoc file copying.
type NATSObjectStore struct {
	nc     *nats.Conn
	store  jetstream.ObjectStore
	owned  bool
}

// NewNATSObjectStore connects to natsURL and binds (creating if necessary)
// the named object-store bucket.
func NewNATSObjectStore(ctx context.Context, natsURL, bucket string) (*NATSObjectStore, error) {
	nc, err := nats.Connect(natsURL, nats.Name("kdd-engine"), nats.MaxReconnects(5))
	if err != nil {
		return nil, fmt.Errorf("transport: connect nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("transport: jetstream context: %w", err)
	}

	store, err := js.ObjectStore(ctx, bucket)
	if err != nil {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{Bucket: bucket})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("transport: bind object store %s: %w", bucket, err)
		}
	}

	return &NATSObjectStore{nc: nc, store: store, owned: true}, nil
}

// Close releases the underlying NATS connection.
func (t *NATSObjectStore) Close() {
	if t.owned && t.nc != nil {
		t.nc.Close()
	}
}

func (t *NATSObjectStore) Push(ctx context.Context, key string, data []byte) error {
	_, err := t.store.PutBytes(ctx, key, data)
	if err != nil {
		return fmt.Errorf("transport: put %s: %w", key, err)
	}
	return nil
}

func (t *NATSObjectStore) Pull(ctx context.Context, key string) ([]byte, error) {
	obj, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("transport: get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("transport: read object %s: %w", key, err)
	}
	return data, nil
}
