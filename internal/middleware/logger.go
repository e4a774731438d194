package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/router"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context, info router.RequestInfo) {
		line := fmt.Sprintf("%s | %s | %s", info.Method, info.Path, time.Since(info.StartTime))
		if err := info.Err; err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", line, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", line, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof("%s", line)
		}
	}
}
