// Package event implements a typed, synchronous, in-memory publish/subscribe
// bus. Handlers run in subscription order on the publisher's goroutine;
// one handler's panic is isolated so it cannot prevent the rest of
// the dispatch list from running.
package event

import (
	"fmt"
	"time"
)

// DocumentDetected fires when the incremental indexer sees a new or changed
// source path before parsing begins.
type DocumentDetected struct {
	Path      string
	DetectedAt time.Time
}

// DocumentParsed fires after front matter, sections and wiki-links have been
// extracted from a document, before node/edge extraction.
type DocumentParsed struct {
	DocumentID string
	Path       string
}

// DocumentIndexed fires once a document's node, edges and (if applicable)
// chunks/embeddings have been written to the artifact store.
type DocumentIndexed struct {
	DocumentID string
	NodeID     string
	IndexLevel string
	EdgeCount  int
	ChunkCount int
}

// DocumentStale fires when an incremental run finds a tracked path whose
// content hash no longer matches the stored manifest entry.
type DocumentStale struct {
	DocumentID string
	Path       string
}

// DocumentDeleted fires after a document's artifacts (node, edges,
// embeddings) have been removed by a cascade delete.
type DocumentDeleted struct {
	DocumentID string
	Path       string
}

// MergeRequested fires when a merge operation begins, reporting how many
// sources are being combined.
type MergeRequested struct {
	SourceCount int
}

// MergeCompleted fires after a merge finishes, reporting resulting counts
// and the conflicts that were resolved.
type MergeCompleted struct {
	NodeCount      int
	EdgeCount      int
	ConflictCount  int
	ResultingLevel string
}

// QueryReceived fires when a query algorithm begins execution.
type QueryReceived struct {
	Kind  string
	Query string
}

// QueryCompleted fires when a query algorithm returns results successfully.
type QueryCompleted struct {
	Kind        string
	ResultCount int
	Duration    time.Duration
}

// QueryFailed fires when a query algorithm returns an error.
type QueryFailed struct {
	Kind  string
	Error string
}

// Handler receives a published event. The concrete type must be type-asserted
// or type-switched on by the handler.
type Handler func(event any)

// Bus is a typed synchronous pub/sub dispatcher. The zero value is not
// usable; construct with NewBus.
type Bus struct {
	subscribers map[string][]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers handler to run, in registration order, whenever an
// event of exactly type T is published. Subscribe is generic over the event
// struct type so callers get compile-time checked handler signatures.
func Subscribe[T any](b *Bus, handler func(T)) {
	key := typeKey[T]()
	b.subscribers[key] = append(b.subscribers[key], func(e any) {
		if typed, ok := e.(T); ok {
			handler(typed)
		}
	})
}

// Publish dispatches evt to every handler subscribed to its concrete type.
// Dispatch is best-effort: a handler that panics is recovered and does not
// stop subsequent handlers from running.
func Publish[T any](b *Bus, evt T) {
	key := typeKey[T]()
	for _, h := range b.subscribers[key] {
		dispatchSafely(h, evt)
	}
}

func dispatchSafely(h Handler, evt any) {
	defer func() {
		_ = recover()
	}()
	h(evt)
}

func typeKey[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
