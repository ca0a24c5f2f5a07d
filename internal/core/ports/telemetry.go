package ports

import "context"

// Telemetry records progress vertices for long-running server work: the
// startup scan and individual transform cycles.
type Telemetry interface {
	// Record starts recording a new vertex.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Complete marks the vertex as finished, with err when it failed.
	Complete(err error)
	// Cached marks the vertex as a cache hit.
	Cached()
}
