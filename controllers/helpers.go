package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/middleware"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/utils"
)

// requestLanguage picks the display language: session preference first, then
// an explicit ?lang= override, then the translator's default.
func requestLanguage(ctx *gin.Context, tr *i18n.Translator) string {
	if _, data := middleware.Session(ctx); data != nil && data.Language != "" && tr.Supported(data.Language) {
		return data.Language
	}
	if lang := strings.TrimSpace(ctx.Query("lang")); lang != "" && tr.Supported(lang) {
		return lang
	}
	return tr.DefaultLanguage()
}

// respondError maps a service error onto a status code and a localized
// envelope. Internal detail is logged here and never serialized.
func respondError(ctx *gin.Context, tr *i18n.Translator, err error) {
	lang := requestLanguage(ctx, tr)
	message := tr.Translate(lang, services.MessageKeyOf(err), nil)

	var status int
	switch services.KindOf(err) {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindOwnership:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindAuthentication:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
		utils.Sugar.Errorw("internal error", "path", ctx.Request.URL.Path, "err", err)
	}

	if fields := services.FieldsOf(err); len(fields) > 0 {
		translated := make(map[string]string, len(fields))
		for field, key := range fields {
			translated[field] = tr.Translate(lang, key, nil)
		}
		utils.FailFields(ctx, status, message, translated)
		return
	}
	utils.Fail(ctx, status, message)
}

// parsePage reads limit/offset query parameters. Out-of-range values are
// clamped by the services, not rejected here.
func parsePage(ctx *gin.Context) (int, int) {
	limit := services.DefaultPageLimit
	offset := 0
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := ctx.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

// pathID parses a numeric path parameter, 0 when malformed.
func pathID(ctx *gin.Context, name string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(name)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
