package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	middlewares := router.middlewares
	closers := router.closers

	return func(c *gin.Context) {
		info := RequestInfo{
			Method:    method,
			Path:      c.Request.URL.Path,
			StartTime: time.Now(),
		}

		ctx := inherit(router.root, c.Request.Context())
		defer func() {
			for _, closer := range closers {
				closer(ctx, info)
			}
		}()

		for _, middleware := range middlewares {
			next, err := middleware(ctx, c.Request)
			if err != nil {
				info.Err = err
				writeError(c, err)
				return
			}

			ctx = next
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = c.ShouldBindQuery(&req)
		case http.MethodPost:
			err = c.ShouldBindJSON(&req)
		default:
			err = errorx.New(errorx.BadRequest, "Unsupported method")
		}

		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			info.Err = errorx.New(errorx.BadRequest, "Invalid request: %v", err)
			writeError(c, info.Err)
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			info.Err = err
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, newResponse(resp))
	}
}

// inherit copies the process-wide values of root into the request context.
func inherit(root, ctx context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, xcontext.Configs(root))
	ctx = xcontext.WithLogger(ctx, xcontext.Logger(root))
	ctx = xcontext.WithHTTPClient(ctx, xcontext.HTTPClient(root))
	if db := xcontext.DB(root); db != nil {
		ctx = xcontext.WithDB(ctx, db)
	}

	return ctx
}
