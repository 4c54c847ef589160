package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestSendSuccessDecodesJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL, Token: "k"}, Payload{"model": "m"}, time.Second)

	require.True(t, res.OK(), "unexpected failure: %v", res.Err)
	assert.Equal(t, map[string]any{"ok": true}, res.Value)
}

func TestSendSetsHeadersAndBody(t *testing.T) {
	var (
		gotMethod string
		gotHeader http.Header
		gotBody   []byte
	)
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	})

	payload := Payload{
		"model":      "hehe-tywd",
		"input":      "AQID",
		"page_start": 0,
		"page_count": 1000,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a helpful assistant."},
			{"role": "user", "content": "周树人和鲁迅是兄弟吗？"},
		},
		"nested": map[string]any{"dpi": 144},
	}

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL, Token: "sk-test"}, payload, time.Second)
	require.True(t, res.OK(), "unexpected failure: %v", res.Err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "Bearer sk-test", gotHeader.Get("Authorization"))

	want, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(gotBody))
}

func TestSendOmitsAuthorizationWithoutToken(t *testing.T) {
	var auth string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, time.Second)
	require.True(t, res.OK())
	assert.Empty(t, auth)
	assert.Equal(t, []any{}, res.Value)
}

func TestSendNon2xxIsHTTPStatusError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("server error"))
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, time.Second)

	require.False(t, res.OK())
	assert.Equal(t, KindHTTPStatus, res.Err.Kind)
	assert.Equal(t, http.StatusInternalServerError, res.Err.StatusCode)
	assert.Equal(t, "server error", res.Err.Body)
	assert.True(t, errors.Is(res.Err, ErrHTTPStatus))
	assert.Nil(t, res.Value)
}

func TestSendInvalidJSONIsDecodeError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, time.Second)

	require.False(t, res.OK())
	assert.Equal(t, KindDecode, res.Err.Kind)
	assert.Equal(t, "not json", res.Err.Body)
	assert.Zero(t, res.Err.StatusCode)
}

func TestSendEmptyBodyIsDecodeError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, time.Second)

	require.False(t, res.OK())
	assert.Equal(t, KindDecode, res.Err.Kind)
}

func TestSendTimeoutIsTransportErrorAndBounded(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	start := time.Now()
	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, 50*time.Millisecond)
	elapsed := time.Since(start)

	require.False(t, res.OK())
	assert.Equal(t, KindTransport, res.Err.Kind)
	assert.True(t, errors.Is(res.Err, ErrTransport))
	assert.Less(t, elapsed, time.Second)
}

func TestSendConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: url}, Payload{}, time.Second)

	require.False(t, res.OK())
	assert.Equal(t, KindTransport, res.Err.Kind)
	assert.True(t, errors.Is(res.Err, ErrTransport))
}

func TestSendRejectsInvalidRequest(t *testing.T) {
	c := New(nil, nil)

	res := c.Send(context.Background(), Endpoint{URL: " "}, Payload{}, time.Second)
	require.False(t, res.OK())
	assert.Equal(t, KindInvalidRequest, res.Err.Kind)

	res = c.Send(context.Background(), Endpoint{URL: "http://127.0.0.1"}, Payload{}, 0)
	require.False(t, res.OK())
	assert.Equal(t, KindInvalidRequest, res.Err.Kind)
}

func TestSendUnencodablePayloadIsEncodeError(t *testing.T) {
	res := New(nil, nil).Send(context.Background(), Endpoint{URL: "http://127.0.0.1"}, Payload{"ch": make(chan int)}, time.Second)

	require.False(t, res.OK())
	assert.Equal(t, KindEncode, res.Err.Kind)
}

func TestSendPreservesLargeIntegers(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 9007199254740993}`))
	})

	res := New(nil, nil).Send(context.Background(), Endpoint{URL: srv.URL}, Payload{}, time.Second)

	require.True(t, res.OK())
	obj, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), obj["id"])
}

func TestSendConcurrentCallers(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})

	c := New(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := c.Send(context.Background(), Endpoint{URL: srv.URL}, Payload{"n": i}, time.Second)
			if assert.True(t, res.OK()) {
				obj := res.Value.(map[string]any)
				assert.Equal(t, json.Number(jsonInt(i)), obj["n"])
			}
		}(i)
	}
	wg.Wait()
}

func jsonInt(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
