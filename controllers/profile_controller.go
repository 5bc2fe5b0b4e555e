package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/utils"
)

// ProfileController serves public user profiles, stats and search.
type ProfileController struct {
	profiles *services.ProfileService
	tr       *i18n.Translator
}

func NewProfileController(profiles *services.ProfileService, tr *i18n.Translator) *ProfileController {
	return &ProfileController{profiles: profiles, tr: tr}
}

// GetByID returns a public profile by user id.
func (c *ProfileController) GetByID(ctx *gin.Context) {
	profile, err := c.profiles.GetByID(ctx.Request.Context(), pathID(ctx, "id"))
	if err != nil {
		respondError(ctx, c.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"user": profile})
}

// GetByUsername returns a public profile by username.
func (c *ProfileController) GetByUsername(ctx *gin.Context) {
	profile, err := c.profiles.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondError(ctx, c.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"user": profile})
}

// Stats returns activity counters for one user.
func (c *ProfileController) Stats(ctx *gin.Context) {
	stats, err := c.profiles.Stats(ctx.Request.Context(), pathID(ctx, "id"))
	if err != nil {
		respondError(ctx, c.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"stats": stats})
}

// Search finds users by username substring.
func (c *ProfileController) Search(ctx *gin.Context) {
	limit, offset := parsePage(ctx)
	page, err := c.profiles.Search(ctx.Request.Context(), strings.TrimSpace(ctx.Query("q")), limit, offset)
	if err != nil {
		respondError(ctx, c.tr, err)
		return
	}
	utils.Success(ctx, page)
}
