package sinks

import (
	"time"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
)

// Outcome describes the result of one document-parse call, as delivered downstream.
type Outcome struct {
	DocumentID  string    `json:"document_id"`
	Input       string    `json:"input"`
	Endpoint    string    `json:"endpoint"`
	OK          bool      `json:"ok"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	StatusCode  int       `json:"status_code,omitempty"`
	Message     string    `json:"message,omitempty"`
	Response    any       `json:"response,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewOutcome folds an apiclient.Result into an Outcome. input is the document reference
// (path or URL), never the encoded content.
func NewOutcome(documentID, input, endpoint string, res apiclient.Result) Outcome {
	o := Outcome{
		DocumentID:  documentID,
		Input:       input,
		Endpoint:    endpoint,
		OK:          res.OK(),
		CompletedAt: time.Now().UTC(),
	}
	if res.OK() {
		o.Response = res.Value
		return o
	}
	o.ErrorKind = string(res.Err.Kind)
	o.StatusCode = res.Err.StatusCode
	o.Message = res.Err.Error()
	return o
}

// trimmed returns the outcome without the response body unless include is set.
// Queue backends cap message sizes well below typical parse responses.
func (o Outcome) trimmed(include bool) Outcome {
	if !include {
		o.Response = nil
	}
	return o
}
