package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
)

func TestRenderSuccessKeepsUnicode(t *testing.T) {
	var buf bytes.Buffer
	res := apiclient.Result{Value: map[string]any{"answer": "不是兄弟", "html": "<b>x</b>"}}
	if err := Render(&buf, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "不是兄弟") || !strings.Contains(out, "<b>x</b>") {
		t.Fatalf("text was escaped: %s", out)
	}
	if !strings.Contains(out, "\n  \"answer\"") {
		t.Fatalf("expected two-space indent: %s", out)
	}
}

func TestRenderFailureShowsKindAndBody(t *testing.T) {
	var buf bytes.Buffer
	res := apiclient.Result{Err: &apiclient.Error{
		Kind:       apiclient.KindHTTPStatus,
		Message:    "unexpected status 500",
		StatusCode: 500,
		Body:       "server error",
	}}
	if err := Render(&buf, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"error: http_status_error", "status: 500", "server error"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestHeadedPrintsBanner(t *testing.T) {
	var buf bytes.Buffer
	if err := Headed(&buf, "API response", apiclient.Result{Value: true}); err != nil {
		t.Fatalf("Headed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != banner || lines[1] != "API response" || lines[2] != banner || lines[3] != "true" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestCountTables(t *testing.T) {
	value := map[string]any{
		"result": map[string]any{
			"markdown": "# Title\n<table><tr><td>a</td></tr><tr><td>b</td></tr></table>",
			"pages": []any{
				map[string]any{"content": "<TABLE><tr><td>1</td></tr></TABLE>"},
				map[string]any{"content": "plain text"},
			},
		},
		"count": 3,
	}

	stats := CountTables(value)
	if stats.Tables != 2 || stats.Rows != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
