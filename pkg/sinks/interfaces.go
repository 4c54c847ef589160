package sinks

import "context"

// Sink delivers outcomes to a downstream system (HTTP hook, SQS, SNS, Pub/Sub).
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, o Outcome) error
	Close() error
}
