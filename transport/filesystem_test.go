package transport_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/c360studio/kdd-engine/transport"
	"github.com/stretchr/testify/require"
)

func TestFilesystemPushPullRoundTrip(t *testing.T) {
	tr, err := transport.NewFilesystem(filepath.Join(t.TempDir(), "bundles"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tr.Push(ctx, "index.tar", []byte("payload")))

	got, err := tr.Pull(ctx, "index.tar")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestFilesystemPullMissingKeyErrors(t *testing.T) {
	tr, err := transport.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = tr.Pull(context.Background(), "missing.tar")
	require.Error(t, err)
}

func TestFilesystemPushOverwritesExisting(t *testing.T) {
	tr, err := transport.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tr.Push(ctx, "a", []byte("first")))
	require.NoError(t, tr.Push(ctx, "a", []byte("second")))

	got, err := tr.Pull(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)
}
