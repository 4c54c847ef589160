package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samvad-hq/docrelay/internal/batch"
	"github.com/samvad-hq/docrelay/internal/config"
	"github.com/samvad-hq/docrelay/internal/logger"
	"github.com/samvad-hq/docrelay/internal/report"
	"github.com/samvad-hq/docrelay/internal/storage"
	"github.com/samvad-hq/docrelay/pkg/apiclient"
	"github.com/samvad-hq/docrelay/pkg/httpclient"
	"github.com/samvad-hq/docrelay/pkg/payloads"
	"github.com/samvad-hq/docrelay/pkg/sinks"
)

// ErrCallFailed is returned when the remote call produced a failure Result that was rendered.
var ErrCallFailed = errors.New("api call failed")

// App wires configuration, the API client and the optional batch infrastructure.
type App struct {
	cfg    *config.Config
	client *apiclient.Client
	out    io.Writer
	log    logger.Logger
}

// New builds an App that renders results to out.
func New(cfg *config.Config, log logger.Logger, out io.Writer) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if out == nil {
		out = io.Discard
	}
	return &App{
		cfg:    cfg,
		client: apiclient.New(httpclient.NewRestyClient(0), log),
		out:    out,
		log:    log,
	}, nil
}

// Parse sends one document (path or URL) to the document-parse endpoint and renders the reply.
func (a *App) Parse(ctx context.Context, ref string, opts payloads.DocParseOptions) error {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid parse options: %w", err)
	}

	input, err := apiclient.Input(ref)
	if err != nil {
		return a.render(apiclient.Result{Err: asAPIError(err)}, "")
	}

	res := a.client.Send(ctx, a.endpoint(a.cfg.DocParseURL()), opts.Payload(input), a.cfg.RequestTimeout)
	if err := a.render(res, ""); err != nil {
		return err
	}
	if res.OK() && opts.TableFlavor == "html" {
		if stats := report.CountTables(res.Value); stats.Tables > 0 {
			a.log.InfoObj("tables detected", "table_stats", map[string]int{
				"tables": stats.Tables,
				"rows":   stats.Rows,
			})
		}
	}
	return nil
}

// Chat sends a conversation to the chat-completion endpoint and renders the reply under a banner.
func (a *App) Chat(ctx context.Context, req payloads.ChatRequest) error {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid chat request: %w", err)
	}

	res := a.client.Send(ctx, a.endpoint(a.cfg.ChatURL()), req.Payload(), a.cfg.RequestTimeout)
	return a.render(res, "API response")
}

// Batch parses many documents, skipping already-parsed ones and forwarding outcomes to sinks.
func (a *App) Batch(ctx context.Context, refs []string, opts payloads.DocParseOptions) (batch.Summary, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return batch.Summary{}, err
	}

	store, err := storage.NewStore(a.cfg.StorageType, a.cfg.BBoltPath, storage.Options{
		DocumentTTL:     a.cfg.StorageTTL,
		CleanupInterval: a.cfg.StorageCleanupInterval,
	})
	if err != nil {
		return batch.Summary{}, fmt.Errorf("init storage: %w", err)
	}
	defer a.closeQuietly("storage", store.Close)
	a.log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     a.cfg.StorageType,
		"path":                     a.cfg.BBoltPath,
		"document_ttl_seconds":     int(a.cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(a.cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := a.buildSinks(ctx)
	if err != nil {
		return batch.Summary{}, err
	}
	defer a.closeQuietly("sinks", fanout.Close)

	runner, err := batch.NewRunner(a.client, store, fanout, batch.Options{
		Endpoint:      a.endpoint(a.cfg.DocParseURL()),
		Parse:         opts,
		Timeout:       a.cfg.RequestTimeout,
		Concurrency:   a.cfg.BatchConcurrency,
		RatePerSecond: a.cfg.BatchRatePerSecond,
	}, a.log)
	if err != nil {
		return batch.Summary{}, err
	}

	start := time.Now()
	sum, runErr := runner.Run(ctx, refs)
	for _, d := range sum.Documents {
		a.renderDocument(d)
	}
	fmt.Fprintf(a.out, "total=%d succeeded=%d skipped=%d failed=%d elapsed=%s\n",
		sum.Total, sum.Succeeded, sum.Skipped, sum.Failed, time.Since(start).Round(time.Millisecond))
	if runErr != nil {
		a.log.ErrorObj("batch finished with failures", "error", runErr.Error())
	}
	if sum.Failed > 0 {
		return sum, ErrCallFailed
	}
	return sum, nil
}

func (a *App) buildSinks(ctx context.Context) (*sinks.Fanout, error) {
	if a.cfg.SinksFile == "" {
		return sinks.NewFanout(nil), nil
	}

	reg, err := sinks.LoadRegistry(a.cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabled := reg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, a.log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	a.log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return sinks.NewFanout(built), nil
}

func (a *App) endpoint(url string) apiclient.Endpoint {
	return apiclient.Endpoint{URL: url, Token: a.cfg.APIKey}
}

// render writes the result; a failure Result is rendered and reported as ErrCallFailed.
func (a *App) render(res apiclient.Result, title string) error {
	var err error
	if title != "" {
		err = report.Headed(a.out, title, res)
	} else {
		err = report.Render(a.out, res)
	}
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", ErrCallFailed, res.Err.Kind)
	}
	return nil
}

func (a *App) renderDocument(d batch.DocumentResult) {
	switch {
	case d.Skipped:
		fmt.Fprintf(a.out, "skipped  %s (%s)\n", d.Ref, d.DocumentID)
	case d.Result.OK():
		fmt.Fprintf(a.out, "parsed   %s\n", d.Ref)
	default:
		fmt.Fprintf(a.out, "failed   %s: %s\n", d.Ref, d.Result.Err.Error())
	}
}

func (a *App) closeQuietly(what string, fn func() error) {
	if err := fn(); err != nil {
		a.log.ErrorObj(what+" close failed", "error", err.Error())
	}
}

func asAPIError(err error) *apiclient.Error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &apiclient.Error{Kind: apiclient.KindFileRead, Message: err.Error(), Err: err}
}
