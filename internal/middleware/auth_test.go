package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/testutil"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	ctx := testutil.MockContext()
	authenticate := Authenticate()

	testCases := []struct {
		name    string
		auth    string
		actor   string
		wantErr errorx.Code
		wantID  int64
	}{
		{name: "no header", wantErr: errorx.Unauthenticated},
		{name: "wrong key", auth: "Bearer other", wantErr: errorx.Unauthenticated},
		{name: "wrong scheme", auth: "Basic api-key", wantErr: errorx.Unauthenticated},
		{name: "bot only", auth: "Bearer api-key"},
		{name: "actor", auth: "Bearer api-key", actor: "42", wantID: 42},
		{name: "invalid actor", auth: "Bearer api-key", actor: "abc", wantErr: errorx.BadRequest},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.actor != "" {
				req.Header.Set(ActorHeader, tt.actor)
			}

			got, err := authenticate(ctx, req)
			if tt.wantErr != 0 {
				require.ErrorIs(t, err, errorx.Error{Code: tt.wantErr})
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantID, xcontext.RequestUserID(got))
		})
	}
}

func TestAuthenticate_NoAPIKey(t *testing.T) {
	cfg := testutil.MockConfigs()
	cfg.Auth.APIKey = ""
	ctx := testutil.MockContextWithConfigs(cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")

	_, err := Authenticate()(ctx, req)
	require.ErrorIs(t, err, errorx.Error{Code: errorx.Unavailable})
}
