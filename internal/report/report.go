// Package report renders API results for humans.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/docrelay/pkg/apiclient"
)

const banner = "=================================================="

// JSON writes v indented by two spaces. Non-ASCII text and HTML are left unescaped.
func JSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Render prints the decoded value of a successful result, or a diagnostic naming the
// failure kind together with any raw body that was received.
func Render(w io.Writer, res apiclient.Result) error {
	if res.OK() {
		return JSON(w, res.Value)
	}

	e := res.Err
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", e.Kind)
	fmt.Fprintf(&b, "message: %s\n", e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "status: %d\n", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, "cause: %v\n", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, "raw body:\n%s\n", e.Body)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Headed renders like Render with a title banner above the output.
func Headed(w io.Writer, title string, res apiclient.Result) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", banner, title, banner); err != nil {
		return err
	}
	return Render(w, res)
}
