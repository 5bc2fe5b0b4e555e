package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/utils"
)

// CSRFHeader is where browser clients present the per-session token.
const CSRFHeader = "X-CSRF-Token"

// CSRFProtect enforces the per-session CSRF token on state-changing
// requests. Bearer-token requests are exempt by rule: they carry their own
// credential and are not form-submittable cross-origin. Safe methods pass
// untouched.
func CSRFProtect(sessions *services.SessionManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			ctx.Next()
			return
		}

		// Explicit exemption for API clients authenticated via bearer token.
		if mode, _ := ctx.Get(ContextAuthModeKey); mode == AuthModeToken {
			ctx.Next()
			return
		}

		_, data := Session(ctx)
		token := ctx.GetHeader(CSRFHeader)
		if token == "" {
			token = ctx.PostForm("csrf_token")
		}
		if !sessions.VerifyCSRF(data, token) {
			utils.Fail(ctx, http.StatusForbidden, "auth.csrf_invalid")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
