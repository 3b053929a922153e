package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
	"github.com/mmynk/splitledger/pkg/api"
)

type downStore struct {
	storage.Store
}

func (downStore) Ping(context.Context) error { return context.DeadlineExceeded }

func newTestServer(t *testing.T, wrap func(storage.Store) storage.Store) *httptest.Server {
	t.Helper()

	store, err := sqlstore.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var s storage.Store = store
	if wrap != nil {
		s = wrap(store)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	m := metrics.New()
	srv := New(&config.HTTP{Host: "127.0.0.1", Port: 0}, logger, Deps{
		Store:         s,
		Ledger:        ledger.New(s, ledger.WithMetrics(m), ledger.WithLogger(logger)),
		Metrics:       m,
		JWT:           auth.NewJWTManager("secret", time.Hour),
		Authenticator: auth.NewPasswordAuthenticator(store.Repos().Users()),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	code, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	down := newTestServer(t, func(s storage.Store) storage.Store { return downStore{s} })
	code, _ = get(t, down.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestConnectJSONAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+api.FeedbackSubmitProcedure, "application/json",
		strings.NewReader(`{"name":"Dana","email":"dana@example.com","message":"hi"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"id":1`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = http.Post(ts.URL+api.UserListUsersProcedure, "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, metricsBody := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, metricsBody, `splitledger_ledger_operations_total{op="ledger.AddFeedback",result="ok"} 1`)
}
