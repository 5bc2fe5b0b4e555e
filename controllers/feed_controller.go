package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/middleware"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/utils"
)

// FeedController serves the personalized feed and per-user post listings.
type FeedController struct {
	feed *services.FeedService
	tr   *i18n.Translator
}

func NewFeedController(feed *services.FeedService, tr *i18n.Translator) *FeedController {
	return &FeedController{feed: feed, tr: tr}
}

// GetFeed returns the viewer's reverse-chronological feed. Authenticated
// only; the route guards with AuthRequired.
func (f *FeedController) GetFeed(ctx *gin.Context) {
	limit, offset := parsePage(ctx)
	page, err := f.feed.GetFeed(ctx.Request.Context(), middleware.UserID(ctx), limit, offset)
	if err != nil {
		respondError(ctx, f.tr, err)
		return
	}
	utils.Success(ctx, page)
}

// GetUserPosts returns one author's posts, annotated for whoever is viewing
// (possibly anonymous).
func (f *FeedController) GetUserPosts(ctx *gin.Context) {
	limit, offset := parsePage(ctx)
	page, err := f.feed.GetUserPosts(ctx.Request.Context(), pathID(ctx, "id"), middleware.UserID(ctx), limit, offset)
	if err != nil {
		respondError(ctx, f.tr, err)
		return
	}
	utils.Success(ctx, page)
}
