package batch

import (
	"context"
	"time"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
	"github.com/samvad-hq/docrelay/pkg/sinks"
)

// Sender performs one API call. *apiclient.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, endpoint apiclient.Endpoint, payload apiclient.Payload, timeout time.Duration) apiclient.Result
}

// Deduper remembers documents that were already parsed. storage.Store satisfies it.
type Deduper interface {
	SeenDocument(id string) (bool, error)
	MarkDocument(id string) error
}

// OutcomeSink forwards outcomes downstream. *sinks.Fanout satisfies it.
type OutcomeSink interface {
	Deliver(ctx context.Context, o sinks.Outcome) (int, error)
}
