package sinks

import (
	"context"
	"errors"
	"testing"
)

type stubSink struct {
	id     string
	err    error
	calls  int
	closed bool
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return "stub" }
func (s *stubSink) Deliver(context.Context, Outcome) error {
	s.calls++
	return s.err
}
func (s *stubSink) Close() error {
	s.closed = true
	return nil
}

func TestFanoutDeliverAggregatesErrors(t *testing.T) {
	ok := &stubSink{id: "ok"}
	bad := &stubSink{id: "bad", err: errors.New("failed")}
	fanout := NewFanout([]Sink{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil sinks to be dropped, size=%d", fanout.Size())
	}

	count, err := fanout.Deliver(context.Background(), Outcome{DocumentID: "d1"})
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every sink should be called once, got ok=%d bad=%d", ok.calls, bad.calls)
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ok.closed || !bad.closed {
		t.Fatalf("expected all sinks closed")
	}
}

func TestNilFanoutIsNoop(t *testing.T) {
	var f *Fanout
	if n, err := f.Deliver(context.Background(), Outcome{}); n != 0 || err != nil {
		t.Fatalf("nil fanout Deliver = %d, %v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should be empty")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	sinks, err := BuildAll(context.Background(), DefaultRegistry(), []SinkConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Type() != TypeHTTP {
		t.Fatalf("unexpected sinks: %#v", sinks)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []SinkConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
