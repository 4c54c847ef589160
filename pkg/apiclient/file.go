package apiclient

import (
	"encoding/base64"
	"os"
	"strings"
)

// EncodeFileAsBase64 reads the whole file into memory and returns its standard base64 text.
// Failures are *Error values of KindFileRead.
func EncodeFileAsBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: KindFileRead, Message: "read " + path, Err: err}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// IsRemote reports whether ref is an http(s) URL rather than a local path.
func IsRemote(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Input resolves a document reference into the value the parse endpoint expects:
// URLs pass through, local files are base64-encoded.
func Input(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &Error{Kind: KindFileRead, Message: "no file path or url given"}
	}
	if IsRemote(ref) {
		return ref, nil
	}
	return EncodeFileAsBase64(ref)
}
