package clipsync_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/app/clipsync"
	"github.com/dmitrymomot/clipsync/core/logger"
)

func testConfig(t *testing.T) clipsync.Config {
	t.Helper()
	cfg := parseConfig(t, map[string]string{
		"APP_NAME":        "clipsync-test",
		"SSE_KEEPALIVE":   "0s",
		"MAX_UPLOAD_SIZE": "8388608",
	})
	require.NoError(t, cfg.Normalize())
	return cfg
}

func newTestApp(t *testing.T, cfg clipsync.Config) *clipsync.App {
	t.Helper()
	app, err := clipsync.New(cfg, clipsync.WithLogger(logger.Nop()))
	require.NoError(t, err)
	return app
}

func newTestServer(t *testing.T) (*clipsync.App, *httptest.Server) {
	t.Helper()
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return app, srv
}

type sseEvent struct {
	id   string
	data string
}

// openSSE connects to the stream endpoint and decodes frames in the background.
// The connection is dropped on test cleanup or when the returned cancel runs.
func openSSE(t *testing.T, url string, header map[string]string) (<-chan sseEvent, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan sseEvent, 16)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		var ev sseEvent
		var has bool
		for sc.Scan() {
			line := sc.Text()
			switch {
			case line == "":
				if has {
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
				ev, has = sseEvent{}, false
			case strings.HasPrefix(line, "id: "):
				ev.id, has = strings.TrimPrefix(line, "id: "), true
			case strings.HasPrefix(line, "data: "):
				if ev.data != "" {
					ev.data += "\n"
				}
				ev.data, has = ev.data+strings.TrimPrefix(line, "data: "), true
			}
		}
	}()
	return events, cancel
}

func nextEvent(t *testing.T, events <-chan sseEvent) sseEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return sseEvent{}
	}
}

func streamURL(base, clientID, roomID string) string {
	return fmt.Sprintf("%s/api/sync/sse?clientId=%s&roomId=%s", base, clientID, roomID)
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...testFile) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="blobs"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func submit(t *testing.T, base, clientID, roomID string, fields map[string]string, files ...testFile) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, fields, files...)
	req, err := http.NewRequest(http.MethodPost, base+"/api/sync", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Client-Id", clientID)
	req.Header.Set("X-Room-Id", roomID)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string, header map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
