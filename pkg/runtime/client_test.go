package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInvoke_ConsumesEventStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invocations", r.URL.Path)
		assert.Equal(t, "interactive-1", r.Header.Get(SessionHeader))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"seq\":0}\n\ndata: {\"seq\":1}\n\n"))
	}))
	defer server.Close()

	var events []string
	client := NewClient(server.URL, server.Client())
	err := client.Invoke(context.Background(), "interactive-1", "hello", func(data string) {
		events = append(events, data)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"seq":0}`, `{"seq":1}`}, events)
}

func TestClientInvoke_JSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"done"}`))
	}))
	defer server.Close()

	var events []string
	client := NewClient(server.URL, server.Client())
	err := client.Invoke(context.Background(), "s", "hello", func(data string) {
		events = append(events, data)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"result":"done"}`}, events)
}

func TestClientInvoke_TerminalErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"seq\":0}\n\nevent: error\ndata: {\"error\":\"graph failed\"}\n\n"))
	}))
	defer server.Close()

	var events []string
	client := NewClient(server.URL, server.Client())
	err := client.Invoke(context.Background(), "s", "hello", func(data string) {
		events = append(events, data)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph failed")
	// Events before the failure were still delivered.
	assert.Equal(t, []string{`{"seq":0}`}, events)
}

func TestClientInvoke_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.Invoke(context.Background(), "s", "hello", func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClientPing(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"Healthy"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	require.NoError(t, client.Ping(context.Background()))

	healthy = false
	assert.Error(t, client.Ping(context.Background()))
}

func TestClientEndToEnd_AgainstServer(t *testing.T) {
	g := &echoGraph{events: 4}
	_, server := newTestServer(t, g)

	var events []string
	client := NewClient(server.URL, server.Client())
	err := client.Invoke(context.Background(), "e2e-session", "What is quantum computing?", func(data string) {
		events = append(events, data)
	})
	require.NoError(t, err)
	assert.Len(t, events, 4)
	assert.Equal(t, "e2e-session", g.lastInput.SessionID)
}
