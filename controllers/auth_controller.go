package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/config"
	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/middleware"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/store"
	"github.com/leoverde/pulse/utils"
)

const apiTokenLifetime = 72 * time.Hour

// AuthController handles registration, session login/logout, CSRF token
// bootstrap, API token issuance and profile edits for the current user.
type AuthController struct {
	creds     *services.CredentialService
	sessions  *services.SessionManager
	profiles  *services.ProfileService
	blacklist *store.TokenBlacklist
	tr        *i18n.Translator
	cfg       config.AppConfig
}

func NewAuthController(creds *services.CredentialService, sessions *services.SessionManager, profiles *services.ProfileService, blacklist *store.TokenBlacklist, tr *i18n.Translator, cfg config.AppConfig) *AuthController {
	return &AuthController{creds: creds, sessions: sessions, profiles: profiles, blacklist: blacklist, tr: tr, cfg: cfg}
}

func (a *AuthController) setSessionCookie(ctx *gin.Context, id string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(a.cfg.SessionCookie, id, a.cfg.SessionTTLMinutes*60, "/", "", false, true)
}

func (a *AuthController) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(a.cfg.SessionCookie, "", -1, "/", "", false, true)
}

// Register creates a new account. The client logs in separately; no session
// is established here.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Language string `json:"language"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}

	language := req.Language
	if language == "" || !a.tr.Supported(language) {
		language = requestLanguage(ctx, a.tr)
	}

	user, err := a.creds.Register(ctx.Request.Context(), req.Username, req.Email, req.Password, language)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	utils.SuccessMessage(ctx, a.tr.Translate(language, "auth.registered", nil), gin.H{"user_id": user.ID})
}

// Login verifies credentials and establishes an authenticated session. The
// session id is rotated, the CSRF token generated, and both returned to the
// browser (id via cookie, token in the payload).
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}

	user, err := a.creds.Verify(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}

	previousID, _ := middleware.Session(ctx)
	id, data, err := a.sessions.Login(ctx.Request.Context(), previousID, user.ID, user.Language)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	csrf, err := a.sessions.EnsureCSRF(ctx.Request.Context(), id, data)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	a.setSessionCookie(ctx, id)

	utils.SuccessMessage(ctx, a.tr.Translate(user.Language, "auth.login_success", nil), gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"csrf_token": csrf,
	})
}

// Token issues a bearer token for non-browser API clients. These requests
// are exempt from CSRF checks by explicit policy.
func (a *AuthController) Token(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}

	user, err := a.creds.Verify(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	token, err := utils.GenerateToken(user.ID, user.Username, apiTokenLifetime)
	if err != nil {
		respondError(ctx, a.tr, services.Internal(err))
		return
	}
	utils.Success(ctx, gin.H{"token": token, "expires_in": int(apiTokenLifetime.Seconds())})
}

// Logout invalidates the caller's credential: the whole session for browser
// clients, the bearer token (via blacklist) for API clients.
func (a *AuthController) Logout(ctx *gin.Context) {
	lang := requestLanguage(ctx, a.tr)

	if mode, _ := ctx.Get(middleware.ContextAuthModeKey); mode == middleware.AuthModeToken {
		if raw, ok := ctx.Get(middleware.ContextBearerTokenKey); ok {
			if token, ok := raw.(string); ok {
				if claims, err := utils.ParseToken(token); err == nil {
					_ = a.blacklist.Revoke(ctx.Request.Context(), token, claims.ExpiresAt.Time)
				}
			}
		}
		utils.SuccessMessage(ctx, a.tr.Translate(lang, "auth.logout_success", nil), nil)
		return
	}

	id, _ := middleware.Session(ctx)
	if err := a.sessions.Logout(ctx.Request.Context(), id); err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	a.clearSessionCookie(ctx)
	utils.SuccessMessage(ctx, a.tr.Translate(lang, "auth.logout_success", nil), nil)
}

// Status reports whether the caller is authenticated, without requiring it.
func (a *AuthController) Status(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == 0 {
		utils.Success(ctx, gin.H{"authenticated": false})
		return
	}
	profile, err := a.profiles.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"authenticated": true, "user": profile})
}

// CSRF returns the session's CSRF token, creating the session and token as
// needed so a fresh browser can bootstrap a form.
func (a *AuthController) CSRF(ctx *gin.Context) {
	id, data := middleware.Session(ctx)
	if data == nil {
		var err error
		id, data, err = a.sessions.Begin(ctx.Request.Context(), requestLanguage(ctx, a.tr))
		if err != nil {
			respondError(ctx, a.tr, err)
			return
		}
		a.setSessionCookie(ctx, id)
	}
	token, err := a.sessions.EnsureCSRF(ctx.Request.Context(), id, data)
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"csrf_token": token})
}

// Me returns the authenticated user's own profile.
func (a *AuthController) Me(ctx *gin.Context) {
	profile, err := a.profiles.GetByID(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"user": profile})
}

// UpdateProfile edits the authenticated user's profile fields.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req struct {
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Language *string `json:"language"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}
	if req.Language != nil && !a.tr.Supported(*req.Language) {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}

	profile, err := a.profiles.Update(ctx.Request.Context(), middleware.UserID(ctx), services.ProfileUpdate{
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Username: req.Username,
		Email:    req.Email,
		Language: req.Language,
	})
	if err != nil {
		respondError(ctx, a.tr, err)
		return
	}

	// Keep the session's display language in sync with the profile.
	if req.Language != nil {
		if id, data := middleware.Session(ctx); data != nil {
			_ = a.sessions.SetLanguage(ctx.Request.Context(), id, data, *req.Language)
		}
	}
	utils.SuccessMessage(ctx, a.tr.Translate(profile.Language, "profile.updated", nil), gin.H{"user": profile})
}

// Language sets the session display language; for authenticated users it is
// persisted on the profile too.
func (a *AuthController) Language(ctx *gin.Context) {
	var req struct {
		Language string `json:"language"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || !a.tr.Supported(req.Language) {
		respondError(ctx, a.tr, services.Validation("validation.failed"))
		return
	}

	id, data := middleware.Session(ctx)
	if data == nil {
		var err error
		id, data, err = a.sessions.Begin(ctx.Request.Context(), req.Language)
		if err != nil {
			respondError(ctx, a.tr, err)
			return
		}
		a.setSessionCookie(ctx, id)
	} else if err := a.sessions.SetLanguage(ctx.Request.Context(), id, data, req.Language); err != nil {
		respondError(ctx, a.tr, err)
		return
	}

	if userID := middleware.UserID(ctx); userID != 0 {
		lang := req.Language
		if _, err := a.profiles.Update(ctx.Request.Context(), userID, services.ProfileUpdate{Language: &lang}); err != nil {
			respondError(ctx, a.tr, err)
			return
		}
	}
	utils.Success(ctx, gin.H{"language": req.Language})
}
