package serverapp

import (
	"bytes"
	"context"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/config"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/engine"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/server"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.Backend = "file"

	app, err := New(Options{
		Config: &cfg,
		Logger: log.New(bytes.NewBuffer(nil), "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Closer() })

	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)
	return app, srv
}

func TestEngineEventsReachWebSocketClients(t *testing.T) {
	app, srv := newTestApp(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// keep triggering until the hub has registered the connection; an
	// upgrade with an empty reserve always emits insufficient_qi
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				app.Engine.BuyUpgrade("meridian")
			}
		}
	}()
	defer close(stop)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var notice server.Notice
	require.NoError(t, conn.ReadJSON(&notice))

	assert.Equal(t, string(engine.EventInsufficientQi), notice.Type)
	assert.Equal(t, "local", notice.Slot)
	require.NotNil(t, notice.Payload)
}

func TestAppCloserStopsEverything(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.Backend = "sqlite"

	app, err := New(Options{
		Config: &cfg,
		Logger: log.New(bytes.NewBuffer(nil), "", 0),
	})
	require.NoError(t, err)

	require.NoError(t, app.Engine.Initialize(context.Background()))
	require.NoError(t, app.Closer())
}

func TestNew_RejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.Backend = "etcd"

	_, err := New(Options{Config: &cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown save backend")
}
