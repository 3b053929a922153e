package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

const whoAmI = "/test.v1.EchoService/WhoAmI"

func newWhoAmIServer(t *testing.T, logger *slog.Logger, interceptors ...connect.Interceptor) *connect.Client[api.Empty, api.UserResponse] {
	t.Helper()

	handler := connect.NewUnaryHandler(whoAmI,
		func(ctx context.Context, _ *connect.Request[api.Empty]) (*connect.Response[api.UserResponse], error) {
			return connect.NewResponse(&api.UserResponse{User: api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)}}), nil
		},
		connect.WithCodec(api.JSONCodec{}),
		connect.WithInterceptors(append(interceptors, LoggingInterceptor(logger))...),
	)

	mux := http.NewServeMux()
	mux.Handle(whoAmI, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return connect.NewClient[api.Empty, api.UserResponse](http.DefaultClient, server.URL+whoAmI,
		connect.WithCodec(api.JSONCodec{}))
}

func TestRequireAuth(t *testing.T) {
	jm := auth.NewJWTManager("secret", time.Hour)
	logs := &bytes.Buffer{}
	client := newWhoAmIServer(t, slog.New(slog.NewTextHandler(logs, nil)), RequireAuth(jm))
	ctx := context.Background()

	token, err := jm.Generate(&models.User{ID: 9, Email: "nine@example.com"})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		req := connect.NewRequest(&api.Empty{})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.CallUnary(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(9), resp.Msg.User.ID)
		assert.Equal(t, "nine@example.com", resp.Msg.User.Email)
	})

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token " + token,
		"invalid":   "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			req := connect.NewRequest(&api.Empty{})
			if header != "" {
				req.Header().Set("Authorization", header)
			}
			_, err := client.CallUnary(ctx, req)
			require.Error(t, err)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		})
	}

	assert.Contains(t, logs.String(), "RPC ok")
	assert.Contains(t, logs.String(), "user_id=9")
}

func TestOptionalAuth(t *testing.T) {
	jm := auth.NewJWTManager("secret", time.Hour)
	client := newWhoAmIServer(t, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), OptionalAuth(jm))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&api.Empty{}))
	require.NoError(t, err)
	assert.Zero(t, resp.Msg.User.ID)

	req := connect.NewRequest(&api.Empty{})
	req.Header().Set("Authorization", "Bearer garbage")
	resp, err = client.CallUnary(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, resp.Msg.User.ID)
}

func TestRequestLogger(t *testing.T) {
	logs := &bytes.Buffer{}
	h := RequestLogger(slog.New(slog.NewTextHandler(logs, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "path=/healthz")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.True(t, called)
}
