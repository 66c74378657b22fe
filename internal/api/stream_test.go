package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-verify/internal/logsink"
	"medicine-verify/internal/store"
)

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{ReadBufferSize: 1024, HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+streamPath, nil)
	require.NoError(t, err)
	return conn
}

func largeEvent(batch string) logsink.Event {
	return logsink.NewEvent(&store.VerificationLog{
		MedicineName:       strings.Repeat("x", 16<<10),
		BatchNumber:        batch,
		VerificationStatus: "VERIFIED",
	})
}

func TestBroadcastDoesNotWaitForIdleClient(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	idle := dialStream(t, srv)
	defer idle.Close()
	notifier := ts.server.Notifier()
	require.Eventually(t, func() bool { return notifier.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Far more data than the socket buffers can hold for a client that never reads.
	start := time.Now()
	for i := 0; i < 2000; i++ {
		notifier.Broadcast(largeEvent("FLOOD"))
	}
	assert.Less(t, time.Since(start), 2*time.Second)

	for i := 0; i < 20; i++ {
		began := time.Now()
		rec := ts.do(http.MethodPost, "/api/medicine/verify", `{"medicineInput":"Amoxicillin"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Less(t, time.Since(began), time.Second, "verification %d", i)
	}
}

func TestIdleClientDoesNotStarveReadingClient(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	idle := dialStream(t, srv)
	defer idle.Close()
	reader := dialStream(t, srv)
	defer reader.Close()
	notifier := ts.server.Notifier()
	require.Eventually(t, func() bool { return notifier.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	go func() {
		for {
			var event logsink.Event
			if err := reader.ReadJSON(&event); err != nil {
				return
			}
			if event.Log != nil {
				mu.Lock()
				seen[event.Log.BatchNumber] = true
				mu.Unlock()
			}
		}
	}()

	for i := 0; i < 500; i++ {
		notifier.Broadcast(largeEvent("FLOOD"))
	}

	require.Eventually(t, func() bool {
		notifier.Broadcast(largeEvent("MARKER"))
		mu.Lock()
		defer mu.Unlock()
		return seen["MARKER"]
	}, 5*time.Second, 20*time.Millisecond)
}

func TestClosedClientIsRemoved(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	conn := dialStream(t, srv)
	notifier := ts.server.Notifier()
	require.Eventually(t, func() bool { return notifier.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return notifier.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	notifier.Broadcast(largeEvent("AFTER-CLOSE"))
	assert.Zero(t, notifier.ClientCount())
}
