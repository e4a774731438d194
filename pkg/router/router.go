package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. The returned context replaces the
// request context. A non-nil error stops the chain.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

// CloserFunc runs after the handler, even if a middleware or the handler
// failed.
type CloserFunc func(ctx context.Context, info RequestInfo)

type RequestInfo struct {
	Method    string
	Path      string
	StartTime time.Time
	Err       error
}

type Router struct {
	Inner gin.IRouter

	root        context.Context
	middlewares []MiddlewareFunc
	closers     []CloserFunc
}

// New creates a router whose handlers inherit the configs, logger and
// database carried by root.
func New(root context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{Inner: engine, root: root}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

func (r *Router) After(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Branch returns a child router which shares the parent's middlewares and
// closers at the time of the call. Middlewares added to the child do not
// affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:       r.Inner,
		root:        r.root,
		middlewares: append([]MiddlewareFunc{}, r.middlewares...),
		closers:     append([]CloserFunc{}, r.closers...),
	}
}

// Raw registers a plain http.Handler without the JSON envelope.
func (r *Router) Raw(method, pattern string, handler http.Handler) {
	r.Inner.Handle(method, pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
