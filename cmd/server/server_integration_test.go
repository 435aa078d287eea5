package main

import (
	"bytes"
	"context"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/config"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/engine"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/persist"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/serverapp"
)

func newTestServer(t *testing.T, backend string) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.Backend = backend

	app, err := serverapp.New(serverapp.Options{
		Config: &cfg,
		Logger: log.New(bytes.NewBuffer(nil), "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Closer() })

	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEngineAgainstCompanionServer(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			srv := newTestServer(t, backend)
			store := persist.NewRemoteStore(srv.URL, "hero", srv.Client())

			start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
			clock := engine.NewFakeClock(start)
			e := engine.New(engine.Options{
				Store: store,
				Clock: clock,
				Roll:  func() float64 { return 0 },
			})

			// play a little, save through the REST gateway
			e.Meditate()
			e.Meditate()
			require.NoError(t, e.Save(context.Background()))

			// a second session loads the same slot back
			e2 := engine.New(engine.Options{Store: store, Clock: clock})
			require.NoError(t, e2.Load(context.Background()))

			s := e2.Snapshot()
			assert.Equal(t, int64(2), s.TimesMeditated)
			assert.InDelta(t, 2.0, s.Qi, 1e-9)
			assert.Equal(t, start, s.LastSaved)
		})
	}
}

func TestRemoteStore_MissingSlot(t *testing.T) {
	srv := newTestServer(t, "file")
	store := persist.NewRemoteStore(srv.URL, "nobody", srv.Client())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestRemoteStore_ServerUnreachable(t *testing.T) {
	srv := newTestServer(t, "file")
	url := srv.URL
	srv.Close()

	store := persist.NewRemoteStore(url, "hero", nil)
	_, err := store.Load(context.Background())

	var tErr *persist.TransportError
	assert.ErrorAs(t, err, &tErr)
}
