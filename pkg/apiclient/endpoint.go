package apiclient

import "net/http"

// Endpoint identifies one remote JSON API: where to POST and which bearer token to send.
type Endpoint struct {
	URL   string
	Token string
}

// Method is always POST.
func (Endpoint) Method() string { return http.MethodPost }

// Payload is the request body; the client serializes it without inspecting the fields.
type Payload map[string]any
