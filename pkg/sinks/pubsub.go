package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

type pubsubSink struct {
	id      string
	include bool
	client  *pubsub.Client
	topic   *pubsub.Topic
	log     Logger
}

// newPubSubSink connects to Pub/Sub. PUBSUB_EMULATOR_HOST is honoured by the client library.
func newPubSubSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("sink %q missing pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubSink{
		id:      cfg.ID,
		include: cfg.IncludeResponse,
		client:  client,
		topic:   client.Topic(cfg.PubSub.Topic),
		log:     ensureLogger(log),
	}, nil
}

func (p *pubsubSink) ID() string   { return p.id }
func (p *pubsubSink) Type() string { return TypePubSub }

// Deliver publishes and waits for the server acknowledgement.
func (p *pubsubSink) Deliver(ctx context.Context, o Outcome) error {
	payload, err := json.Marshal(o.trimmed(p.include))
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	id, err := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"document_id": o.DocumentID,
			"ok":          okAttr(o.OK),
		},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub sink delivered outcome", "sink_pubsub_delivery", map[string]any{
		"sink_id":    p.id,
		"message_id": id,
	})
	return nil
}

func (p *pubsubSink) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
