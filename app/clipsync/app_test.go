package clipsync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/app/clipsync"
	"github.com/dmitrymomot/clipsync/core/clipboard"
	"github.com/dmitrymomot/clipsync/core/logger"
	"github.com/dmitrymomot/clipsync/core/server"
	"github.com/dmitrymomot/clipsync/pkg/useragent"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestTextRelay(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	a, _ := openSSE(t, streamURL(srv.URL, "A", "R1"), nil)
	b, _ := openSSE(t, streamURL(srv.URL, "B", "R1"), nil)

	for _, events := range []<-chan sseEvent{a, b} {
		open := nextEvent(t, events)
		assert.Equal(t, clipboard.HandshakeData, open.data)
		assert.NotEmpty(t, open.id)
	}

	resp := submit(t, srv.URL, "A", "R1", map[string]string{"type": "text", "value": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"type":"text","value":"hello"}`, readAll(t, resp))

	ev := nextEvent(t, b)
	assert.NotEmpty(t, ev.id)
	assert.JSONEq(t, `{"type":"text","value":"hello","sizeMB":0}`, ev.data)
	assert.Contains(t, ev.data, `"sizeMB":0.0000`)

	select {
	case got := <-a:
		t.Fatalf("sender received its own broadcast: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}

	read, body := get(t, srv.URL+"/api/sync?clientId=C&roomId=R1", nil)
	require.Equal(t, http.StatusOK, read.StatusCode)
	assert.JSONEq(t, ev.data, string(body))
}

func TestMultilineValueSurvives(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)
	b, _ := openSSE(t, streamURL(srv.URL, "B", "R1"), nil)
	nextEvent(t, b)

	value := "line one\nline two\ttabbed"
	resp := submit(t, srv.URL, "A", "R1", map[string]string{"type": "text", "value": value})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var md clipboard.Metadata
	require.NoError(t, json.Unmarshal([]byte(nextEvent(t, b).data), &md))
	assert.Equal(t, value, md.Value)
}

func TestAttachmentRelay(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)
	b, _ := openSSE(t, streamURL(srv.URL, "B", "R1"), nil)
	nextEvent(t, b)

	first := []byte(strings.Repeat("a", 1048576))
	second := []byte(strings.Repeat("b", 2097152))
	resp := submit(t, srv.URL, "A", "R1",
		map[string]string{"type": "files", "value": "a.png,b.pdf"},
		testFile{name: "a.png", contentType: "image/png", data: first},
		testFile{name: "b.pdf", contentType: "application/pdf", data: second},
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ev := nextEvent(t, b)
	assert.Contains(t, ev.data, `"sizeMB":3.0000`)
	assert.NotContains(t, ev.data, "blobs")

	_, body := get(t, srv.URL+"/api/sync?clientId=B&roomId=R1", nil)
	assert.JSONEq(t, ev.data, string(body))

	resp0, body0 := get(t, srv.URL+"/api/sync/file?clientId=B&roomId=R1&i=0", nil)
	require.Equal(t, http.StatusOK, resp0.StatusCode)
	assert.Equal(t, "image/png", resp0.Header.Get("Content-Type"))
	assert.Contains(t, resp0.Header.Get("Content-Disposition"), "a.png")
	assert.Equal(t, first, body0)

	resp1, body1 := get(t, srv.URL+"/api/sync/file?clientId=B&roomId=R1&i=1", nil)
	require.Equal(t, http.StatusOK, resp1.StatusCode)
	assert.Equal(t, "application/pdf", resp1.Header.Get("Content-Type"))
	assert.Equal(t, second, body1)

	respDefault, bodyDefault := get(t, srv.URL+"/api/sync/file?clientId=B&roomId=R1", nil)
	require.Equal(t, http.StatusOK, respDefault.StatusCode)
	assert.Equal(t, first, bodyDefault, "index defaults to 0")
}

func TestBlobNotFound(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	for _, query := range []string{"i=0", "i=3", "i=-1", "i=abc"} {
		resp, body := get(t, srv.URL+"/api/sync/file?clientId=A&roomId=empty&"+query, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, query)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "blob_not_found", envelope["code"], query)
	}
}

func TestLatestEmptyRoom(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/api/sync?clientId=A&roomId=nothing-yet", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))
}

func TestParamsRequired(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	for _, path := range []string{
		"/api/sync/sse",
		"/api/sync/sse?clientId=A",
		"/api/sync/sse?roomId=R1",
		"/api/sync/clients?roomId=R1",
		"/api/sync",
	} {
		resp, body := get(t, srv.URL+path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.JSONEq(t, `{
			"code": "params_required",
			"message": "clientId and roomId are required",
			"details": {"keys": ["roomId", "clientId"]}
		}`, string(body), path)
	}
}

func TestIdentityResolution(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	// Headers win over query parameters.
	named, _ := openSSE(t, srv.URL+"/api/sync/sse?clientId=ignored&roomId=ignored", map[string]string{
		"X-Client-Id":   "laptop",
		"X-Room-Id":     "home",
		"X-Client-Name": "Work Laptop",
	})
	nextEvent(t, named)

	queryNamed, _ := openSSE(t, streamURL(srv.URL, "phone", "home")+"&clientName=Pixel", nil)
	nextEvent(t, queryNamed)

	fromAgent, _ := openSSE(t, streamURL(srv.URL, "desktop", "home"), map[string]string{"User-Agent": chromeMac})
	nextEvent(t, fromAgent)

	anonymous, _ := openSSE(t, streamURL(srv.URL, "tablet", "home"), map[string]string{"User-Agent": ""})
	nextEvent(t, anonymous)

	resp, body := get(t, srv.URL+"/api/sync/clients", map[string]string{"X-Client-Id": "x", "X-Room-Id": "home"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var clients []clipboard.ClientInfo
	require.NoError(t, json.Unmarshal(body, &clients))

	deviceName := useragent.DeviceName(chromeMac)
	require.NotEmpty(t, deviceName)
	assert.Equal(t, []clipboard.ClientInfo{
		{ClientID: "laptop", ClientName: "Work Laptop"},
		{ClientID: "phone", ClientName: "Pixel"},
		{ClientID: "desktop", ClientName: deviceName},
		{ClientID: "tablet", ClientName: "tablet"},
	}, clients)

	_, body = get(t, srv.URL+"/api/sync/clients?clientId=x&roomId=ignored", nil)
	assert.JSONEq(t, `[]`, string(body))
}

func TestStreamResume(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	resp := submit(t, srv.URL, "A", "R1", map[string]string{"type": "html", "value": "<b>hi</b>"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	missed, cancel := openSSE(t, streamURL(srv.URL, "B", "R1"), map[string]string{"Last-Event-ID": "stale"})
	replay := nextEvent(t, missed)
	assert.JSONEq(t, `{"type":"html","value":"<b>hi</b>","sizeMB":0}`, replay.data)
	cancel()

	upToDate, _ := openSSE(t, streamURL(srv.URL, "B", "R1"), map[string]string{"Last-Event-ID": replay.id})
	open := nextEvent(t, upToDate)
	assert.Equal(t, clipboard.HandshakeData, open.data)
	assert.NotEqual(t, replay.id, open.id)

	fresh, _ := openSSE(t, streamURL(srv.URL, "C", "R1"), nil)
	assert.Equal(t, clipboard.HandshakeData, nextEvent(t, fresh).data)
}

func TestStreamAbortLeavesRoom(t *testing.T) {
	t.Parallel()

	app, srv := newTestServer(t)
	events, cancel := openSSE(t, streamURL(srv.URL, "A", "R1"), nil)
	nextEvent(t, events)
	require.Len(t, app.Hub().Clients("R1"), 1)

	cancel()
	require.Eventually(t, func() bool {
		return len(app.Hub().Clients("R1")) == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestUnknownKind(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)
	resp := submit(t, srv.URL, "A", "R1", map[string]string{"type": "video", "value": "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "unknown_kind", envelope["code"])
}

func TestUploadTooLarge(t *testing.T) {
	t.Parallel()

	cfg := parseConfig(t, map[string]string{"MAX_UPLOAD_SIZE": "1024"})
	require.NoError(t, cfg.Normalize())
	srv := httptest.NewServer(newTestApp(t, cfg).Handler())
	t.Cleanup(srv.Close)

	resp := submit(t, srv.URL, "A", "R1",
		map[string]string{"type": "files", "value": "big.bin"},
		testFile{name: "big.bin", contentType: "application/octet-stream", data: make([]byte, 4096)},
	)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "request_entity_too_large", envelope["code"])
}

func TestWebSocketRelay(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sync/ws?clientId=W&roomId=R1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	readFrame := func() map[string]string {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var frame map[string]string
		require.NoError(t, conn.ReadJSON(&frame))
		return frame
	}

	open := readFrame()
	assert.Equal(t, clipboard.HandshakeData, open["data"])
	assert.NotEmpty(t, open["id"])

	sub := submit(t, srv.URL, "A", "R1", map[string]string{"type": "rtf", "value": "{\\rtf1 hi}"})
	require.Equal(t, http.StatusOK, sub.StatusCode)

	frame := readFrame()
	assert.NotEmpty(t, frame["id"])
	assert.JSONEq(t, `{"type":"rtf","value":"{\\rtf1 hi}","sizeMB":0}`, frame["data"])
}

func TestHealthAndNotFound(t *testing.T) {
	t.Parallel()

	app, srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALIVE", string(body))

	resp, body = get(t, srv.URL+"/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "READY", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp, body = get(t, srv.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "not_found", envelope["code"])
	assert.Equal(t, "Not Found", envelope["message"])

	require.NoError(t, app.Hub().Close())
	resp, _ = get(t, srv.URL+"/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/sync/sse", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://clip.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-Client-Id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Client-Id")
}

func TestRunShutsDownStreams(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(3*time.Second))
	app, err := clipsync.New(cfg, clipsync.WithLogger(logger.Nop()), clipsync.WithServer(srv))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/health/live")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 10*time.Millisecond)

	events, _ := openSSE(t, streamURL("http://"+srv.Addr(), "A", "R1"), nil)
	nextEvent(t, events)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	// The stream ends once the hub closes it.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}
