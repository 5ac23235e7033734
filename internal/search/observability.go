package search

// QueryEvent records metadata about a single index query.
type QueryEvent struct {
	Index     string
	Query     string
	Status    int
	Hits      int
	LatencyMs int64
	Success   bool
}

// Observer receives query events for logging.
type Observer interface {
	OnQueryComplete(event QueryEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnQueryComplete(QueryEvent) {}
