// Package batch parses many documents through the document-parse endpoint with bounded
// concurrency, skipping documents that were already parsed and forwarding outcomes to sinks.
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samvad-hq/docrelay/internal/logger"
	"github.com/samvad-hq/docrelay/pkg/apiclient"
	"github.com/samvad-hq/docrelay/pkg/payloads"
	"github.com/samvad-hq/docrelay/pkg/sinks"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures a Runner.
type Options struct {
	Endpoint    apiclient.Endpoint
	Parse       payloads.DocParseOptions
	Timeout     time.Duration
	Concurrency int
	// RatePerSecond caps request starts; 0 disables pacing.
	RatePerSecond float64
}

// DocumentResult is the per-input record of a run.
type DocumentResult struct {
	Ref        string
	DocumentID string
	Skipped    bool
	Result     apiclient.Result
}

// Summary aggregates a run. Documents keeps the order of the inputs.
type Summary struct {
	Total     int
	Skipped   int
	Succeeded int
	Failed    int
	Documents []DocumentResult
}

// Runner coordinates a batch of document-parse calls.
type Runner struct {
	sender  Sender
	dedupe  Deduper
	sink    OutcomeSink
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
}

// NewRunner wires a runner. dedupe and sink may be nil.
func NewRunner(sender Sender, dedupe Deduper, sink OutcomeSink, opts Options, log logger.Logger) (*Runner, error) {
	if sender == nil {
		return nil, errors.New("batch runner requires a sender")
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("batch runner requires a positive timeout")
	}
	if err := opts.Parse.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parse options: %w", err)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	r := &Runner{sender: sender, dedupe: dedupe, sink: sink, opts: opts, log: log}
	if opts.RatePerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return r, nil
}

// Run processes every ref (local path or URL). Per-document failures are reported in the
// Summary and joined into the returned error; they never stop the other documents.
func (r *Runner) Run(ctx context.Context, refs []string) (Summary, error) {
	if r == nil || r.sender == nil {
		return Summary{}, errors.New("batch runner is not initialized")
	}
	if len(refs) == 0 {
		return Summary{}, errors.New("no documents given")
	}

	docs := make([]DocumentResult, len(refs))
	errs := make([]error, len(refs))

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			docs[i], errs[i] = r.runOne(ctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Total: len(refs), Documents: docs}
	for i, d := range docs {
		switch {
		case d.Skipped:
			sum.Skipped++
		case errs[i] == nil:
			sum.Succeeded++
		default:
			sum.Failed++
		}
	}

	r.log.InfoObj("batch completed", "batch_summary", map[string]any{
		"total":     sum.Total,
		"skipped":   sum.Skipped,
		"succeeded": sum.Succeeded,
		"failed":    sum.Failed,
	})
	return sum, errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, ref string) (DocumentResult, error) {
	doc := DocumentResult{Ref: ref}

	id, err := documentID(ref)
	if err != nil {
		doc.DocumentID = "path:" + ref
		doc.Result = apiclient.Result{Err: asAPIError(err)}
		r.deliver(ctx, doc)
		return doc, fmt.Errorf("%s: %w", ref, err)
	}
	doc.DocumentID = id

	if r.dedupe != nil {
		seen, err := r.dedupe.SeenDocument(id)
		if err != nil {
			r.log.WarnObj("dedupe lookup failed", "batch_dedupe_error", map[string]any{
				"document_id": id,
				"error":       err.Error(),
			})
		} else if seen {
			doc.Skipped = true
			r.log.DebugObj("document already parsed; skipping", "document_id", id)
			return doc, nil
		}
	}

	input, err := apiclient.Input(ref)
	if err != nil {
		doc.Result = apiclient.Result{Err: asAPIError(err)}
		r.deliver(ctx, doc)
		return doc, fmt.Errorf("%s: %w", ref, err)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			doc.Result = apiclient.Result{Err: &apiclient.Error{Kind: apiclient.KindTransport, Message: "cancelled before send", Err: err}}
			return doc, fmt.Errorf("%s: %w", ref, err)
		}
	}

	doc.Result = r.sender.Send(ctx, r.opts.Endpoint, r.opts.Parse.Payload(input), r.opts.Timeout)

	if err := r.deliver(ctx, doc); err != nil {
		return doc, fmt.Errorf("%s: deliver outcome: %w", ref, err)
	}
	if !doc.Result.OK() {
		return doc, fmt.Errorf("%s: %w", ref, doc.Result.Err)
	}

	if r.dedupe != nil {
		if err := r.dedupe.MarkDocument(id); err != nil {
			r.log.WarnObj("dedupe mark failed", "batch_dedupe_error", map[string]any{
				"document_id": id,
				"error":       err.Error(),
			})
		}
	}
	return doc, nil
}

// deliver forwards the outcome; a document only counts as done once every sink has it.
func (r *Runner) deliver(ctx context.Context, doc DocumentResult) error {
	if r.sink == nil {
		return nil
	}
	o := sinks.NewOutcome(doc.DocumentID, doc.Ref, r.opts.Endpoint.URL, doc.Result)
	if _, err := r.sink.Deliver(ctx, o); err != nil {
		r.log.ErrorObj("outcome delivery failed", "batch_delivery_error", map[string]any{
			"document_id": doc.DocumentID,
			"error":       err.Error(),
		})
		return err
	}
	return nil
}

// documentID hashes file content for local documents and the URL for remote ones,
// so renamed copies of the same file are still recognised.
func documentID(ref string) (string, error) {
	if apiclient.IsRemote(ref) {
		sum := sha256.Sum256([]byte(ref))
		return "url:" + hex.EncodeToString(sum[:]), nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return "", &apiclient.Error{Kind: apiclient.KindFileRead, Message: "open " + ref, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", &apiclient.Error{Kind: apiclient.KindFileRead, Message: "hash " + ref, Err: err}
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

func asAPIError(err error) *apiclient.Error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &apiclient.Error{Kind: apiclient.KindFileRead, Message: err.Error(), Err: err}
}
