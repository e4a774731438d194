package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name" form:"name"`
	Count int    `json:"count" form:"count"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
	Count    int    `json:"count"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty name")
	}

	return &echoResponse{Greeting: "hello " + req.Name, Count: req.Count}, nil
}

func serve(t *testing.T, r *Router, req *http.Request) (int, envelope) {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRouter_GET(t *testing.T) {
	r := New(context.Background())
	GET(r, "/echo", echo)

	code, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=bob&count=3", nil))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(0), body.Code)
	require.Equal(t, echoResponse{Greeting: "hello bob", Count: 3}, body.Data)

	code, body = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?count=abc", nil))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, int64(errorx.BadRequest), body.Code)
}

func TestRouter_POST(t *testing.T) {
	r := New(context.Background())
	POST(r, "/echo", echo)

	code, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"bob"}`)))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "hello bob", body.Data.Greeting)

	code, body = serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Empty name", body.Error)
}

func TestRouter_MiddlewareAndCloser(t *testing.T) {
	r := New(context.Background())

	var infos []RequestInfo
	r.After(func(ctx context.Context, info RequestInfo) {
		infos = append(infos, info)
	})
	r.Before(func(ctx context.Context, req *http.Request) (context.Context, error) {
		if req.Header.Get("X-Deny") != "" {
			return nil, errorx.New(errorx.Unauthenticated, "Denied")
		}

		return ctx, nil
	})
	GET(r, "/echo", echo)

	req := httptest.NewRequest(http.MethodGet, "/echo?name=bob", nil)
	req.Header.Set("X-Deny", "1")
	code, body := serve(t, r, req)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, int64(errorx.Unauthenticated), body.Code)

	code, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=bob", nil))
	require.Equal(t, http.StatusOK, code)

	require.Len(t, infos, 2)
	require.ErrorIs(t, infos[0].Err, errorx.Error{Code: errorx.Unauthenticated})
	require.NoError(t, infos[1].Err)
	require.Equal(t, "/echo", infos[1].Path)
}

func TestRouter_Branch(t *testing.T) {
	r := New(context.Background())
	GET(r, "/open", echo)

	private := r.Branch()
	private.Before(func(ctx context.Context, req *http.Request) (context.Context, error) {
		return nil, errorx.New(errorx.PermissionDenied, "Closed")
	})
	GET(private, "/closed", echo)

	code, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/open?name=a", nil))
	require.Equal(t, http.StatusOK, code)

	code, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/closed?name=a", nil))
	require.Equal(t, http.StatusForbidden, code)
}
