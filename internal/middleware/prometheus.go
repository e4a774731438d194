package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/router"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context, info router.RequestInfo) {
		code := 0
		if err := info.Err; err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		for key, counter := range common.PromCounters {
			switch key {
			case common.HTTPRequestTotal:
				counter.WithLabelValues(info.Path, fmt.Sprint(code)).Inc()
			}
		}

		for key, histogram := range common.PromHistograms {
			switch key {
			case common.HTTPRequestDurationSeconds:
				histogram.WithLabelValues(info.Path, fmt.Sprint(code)).Observe(time.Since(info.StartTime).Seconds())
			}
		}
	}
}
