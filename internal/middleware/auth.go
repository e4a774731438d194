package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/router"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

const ActorHeader = "X-Actor-ID"

// Authenticate accepts only the bot layer, identified by the shared API key,
// and records the chat user acting through it.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		apiKey := xcontext.Configs(ctx).Auth.APIKey
		if apiKey == "" {
			return nil, errorx.New(errorx.Unavailable, "The API is disabled, no API key is configured")
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid API key")
		}

		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			return ctx, nil
		}

		actorID, err := strconv.ParseInt(actor, 10, 64)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid %s header", ActorHeader)
		}

		return xcontext.WithRequestUserID(ctx, actorID), nil
	}
}
