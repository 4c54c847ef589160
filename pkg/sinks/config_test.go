package sinks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "sinks.yaml", `
sinks:
  - id: hook
    type: HTTP
    http:
      url: " https://hooks.example.com/parsed "
      headers:
        X-Token: abc
        "": dropped
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/outcomes
      region: us-east-1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "hook" {
		t.Fatalf("unexpected enabled sinks: %#v", enabled)
	}
	hook := enabled[0]
	if hook.Type != TypeHTTP || hook.HTTP.URL != "https://hooks.example.com/parsed" {
		t.Fatalf("http sink not sanitized: %#v", hook.HTTP)
	}
	if hook.HTTP.Method != httpDefaultMethod || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v", hook.HTTP)
	}
	if len(hook.HTTP.Headers) != 1 {
		t.Fatalf("expected empty header key dropped: %#v", hook.HTTP.Headers)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "sinks.json", `{"sinks":[{"id":"ps","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.Enabled(); len(got) != 1 || got[0].PubSub.Topic != "t" {
		t.Fatalf("unexpected sinks: %#v", got)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := map[string]string{
		"missing url":  "sinks:\n  - id: a\n    type: http\n",
		"sns region":   "sinks:\n  - id: a\n    type: sns\n    sns:\n      topic_arn: arn\n",
		"unknown type": "sinks:\n  - id: a\n    type: kafka\n",
		"duplicate":    "sinks:\n  - id: a\n    type: http\n    http: {url: x}\n  - id: a\n    type: http\n    http: {url: y}\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "sinks.yaml", content)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read sinks file") {
		t.Fatalf("expected read error, got %v", err)
	}
}
