package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/podcast-transcript/internal/session"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// liveServer runs the test app on a real listener so WebSocket clients can
// connect to it
type liveServer struct {
	*testServer
	base   *url.URL
	client *http.Client
}

func newLiveServer(t *testing.T, transcript string) *liveServer {
	t.Helper()
	ts := newTestServer(t, true, transcript)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = ts.app.Listener(ln) }()
	t.Cleanup(func() { _ = ts.app.ShutdownWithTimeout(time.Second) })

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse("http://" + ln.Addr().String())
	require.NoError(t, err)

	return &liveServer{
		testServer: ts,
		base:       base,
		client:     &http.Client{Jar: jar, Timeout: 2 * time.Second},
	}
}

func (ls *liveServer) request(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, ls.base.String()+path, body)
	} else {
		req, err = http.NewRequest(method, ls.base.String()+path, nil)
	}
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ls.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (ls *liveServer) uploadMP3(t *testing.T, name string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp := ls.request(t, http.MethodPost, "/api/file", &body, w.FormDataContentType())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (ls *liveServer) dial(t *testing.T) *fws.Conn {
	t.Helper()
	header := http.Header{}
	for _, c := range ls.client.Jar.Cookies(ls.base) {
		header.Add("Cookie", c.String())
	}

	conn, resp, err := fws.DefaultDialer.Dial("ws://"+ls.base.Host+"/ws/state", header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *fws.Conn, match func(session.Snapshot) bool) session.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var snap session.Snapshot
		require.NoError(t, conn.ReadJSON(&snap))
		if match(snap) {
			return snap
		}
	}
}

func TestStreamPushesTransitions(t *testing.T) {
	ls := newLiveServer(t, "Hello there.")

	resp := ls.request(t, http.MethodGet, "/api/state", nil, "")
	initial := decode[session.Snapshot](t, resp)

	conn := ls.dial(t)

	first := readUntil(t, conn, func(session.Snapshot) bool { return true })
	assert.Equal(t, initial.Session, first.Session)
	assert.Equal(t, types.StatusIdle, first.Status)

	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte("dragenter")))
	readUntil(t, conn, func(s session.Snapshot) bool { return s.Dragging })
	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte("dragleave")))
	readUntil(t, conn, func(s session.Snapshot) bool { return !s.Dragging })

	ls.uploadMP3(t, "show.mp3")
	resp = ls.request(t, http.MethodPost, "/api/transcribe", nil, "")
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	done := readUntil(t, conn, func(s session.Snapshot) bool { return s.Status == types.StatusSuccess })
	assert.Equal(t, "Hello there.", done.Transcript)
	assert.False(t, done.Disabled)
	require.NotNil(t, done.File)
	assert.Equal(t, "show.mp3", done.File.Name)
	assert.Equal(t, int32(1), ls.calls.Load())
}

func TestStreamClosesWhenSessionEvicted(t *testing.T) {
	ls := newLiveServer(t, "")

	resp := ls.request(t, http.MethodGet, "/api/state", nil, "")
	old := decode[session.Snapshot](t, resp)

	conn := ls.dial(t)
	readUntil(t, conn, func(session.Snapshot) bool { return true })

	require.Equal(t, 1, ls.store.Sweep(-time.Second))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "server should drop the socket, not leave it idle")
	}

	resp = ls.request(t, http.MethodGet, "/api/state", nil, "")
	fresh := decode[session.Snapshot](t, resp)
	assert.NotEqual(t, old.Session, fresh.Session)
}
