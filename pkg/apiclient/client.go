// Package apiclient performs single JSON-over-HTTP request/response cycles against
// bearer-token APIs and folds every outcome into a Result.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/docrelay/pkg/httpclient"
)

// Client sends payloads to endpoints. It carries no per-call state and is safe for concurrent use.
type Client struct {
	transport httpclient.Client
	log       Logger
}

// New wires a Client around the given transport.
func New(transport httpclient.Client, log Logger) *Client {
	if transport == nil {
		transport = httpclient.NewRestyClient(0)
	}
	return &Client{transport: transport, log: ensureLogger(log)}
}

// Send POSTs payload as JSON to endpoint and waits at most timeout for the decoded reply.
// It never retries; callers decide what to do with a failed Result.
func (c *Client) Send(ctx context.Context, endpoint Endpoint, payload Payload, timeout time.Duration) Result {
	url := strings.TrimSpace(endpoint.URL)
	if url == "" {
		return failure(KindInvalidRequest, "endpoint url is empty", 0, "", nil)
	}
	if timeout <= 0 {
		return failure(KindInvalidRequest, fmt.Sprintf("timeout must be positive, got %s", timeout), 0, "", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure(KindEncode, "encode request payload", 0, "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.transport.Post(ctx, url, requestHeaders(endpoint.Token), body)
	if err != nil {
		res := failure(KindTransport, "request failed", 0, "", err)
		c.logCall(url, 0, start, res)
		return res
	}

	res := interpret(resp.StatusCode(), resp.Body())
	c.logCall(url, resp.StatusCode(), start, res)
	return res
}

func requestHeaders(token string) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if token = strings.TrimSpace(token); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}

// interpret maps a received response onto the Result union.
func interpret(status int, body []byte) Result {
	if status < 200 || status > 299 {
		return failure(KindHTTPStatus, fmt.Sprintf("unexpected status %d", status), status, string(body), nil)
	}
	if !json.Valid(body) {
		return failure(KindDecode, "response body is not valid json", 0, string(body), nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return failure(KindDecode, "decode response body", 0, string(body), err)
	}
	return success(value)
}

func (c *Client) logCall(url string, status int, start time.Time, res Result) {
	fields := map[string]any{
		"url":        url,
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if res.OK() {
		c.log.DebugObj("api call completed", "api_call", fields)
		return
	}
	fields["kind"] = string(res.Err.Kind)
	c.log.WarnObj("api call failed", "api_call", fields)
}
