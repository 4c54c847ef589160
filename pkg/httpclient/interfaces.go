package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Deadlines travel on ctx; implementations must not retry on their own.
type Client interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (Response, error)
}
