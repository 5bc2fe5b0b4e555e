package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/leoverde/pulse/i18n"
	"github.com/leoverde/pulse/middleware"
	"github.com/leoverde/pulse/services"
	"github.com/leoverde/pulse/utils"
)

// PostController manages posts, likes and comments.
type PostController struct {
	posts      *services.PostService
	engagement *services.EngagementService
	tr         *i18n.Translator
}

func NewPostController(posts *services.PostService, engagement *services.EngagementService, tr *i18n.Translator) *PostController {
	return &PostController{posts: posts, engagement: engagement, tr: tr}
}

// CreatePost publishes a new post for the authenticated user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, p.tr, services.Validation("validation.failed"))
		return
	}

	userID := middleware.UserID(ctx)
	post, err := p.posts.Create(ctx.Request.Context(), userID, utils.SanitizeContent(req.Content))
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}

	view, err := p.posts.GetByID(ctx.Request.Context(), post.ID, userID)
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "posts.created", nil), gin.H{"post": view})
}

// GetPost returns one post annotated for the viewer (anonymous allowed).
func (p *PostController) GetPost(ctx *gin.Context) {
	view, err := p.posts.GetByID(ctx.Request.Context(), pathID(ctx, "id"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"post": view})
}

// UpdatePost edits a post's content, owner only.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, p.tr, services.Validation("validation.failed"))
		return
	}

	view, err := p.posts.Update(ctx.Request.Context(), pathID(ctx, "id"), middleware.UserID(ctx), utils.SanitizeContent(req.Content))
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "posts.updated", nil), gin.H{"post": view})
}

// DeletePost removes a post, owner only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	if err := p.posts.Delete(ctx.Request.Context(), pathID(ctx, "id"), middleware.UserID(ctx)); err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "posts.deleted", nil), nil)
}

// ToggleLike flips the caller's like on a post and reports the live count.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	result, err := p.engagement.ToggleLike(ctx.Request.Context(), middleware.UserID(ctx), pathID(ctx, "id"))
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	utils.Success(ctx, gin.H{"action": result.Action, "likes_count": result.Count})
}

// ListLikers lists users who liked a post, newest like first.
func (p *PostController) ListLikers(ctx *gin.Context) {
	limit, offset := parsePage(ctx)
	page, err := p.engagement.ListLikers(ctx.Request.Context(), pathID(ctx, "id"), limit, offset)
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	utils.Success(ctx, page)
}

// CreateComment attaches a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, p.tr, services.Validation("validation.failed"))
		return
	}

	comment, err := p.engagement.CreateComment(ctx.Request.Context(), middleware.UserID(ctx), pathID(ctx, "id"), utils.SanitizeContent(req.Content))
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "comments.created", nil), gin.H{"comment": comment})
}

// ListComments returns a post's comments, oldest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	limit, offset := parsePage(ctx)
	page, err := p.engagement.ListComments(ctx.Request.Context(), pathID(ctx, "id"), limit, offset)
	if err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	utils.Success(ctx, page)
}

// UpdateComment edits a comment, author only.
func (p *PostController) UpdateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, p.tr, services.Validation("validation.failed"))
		return
	}
	if err := p.engagement.UpdateComment(ctx.Request.Context(), pathID(ctx, "commentId"), middleware.UserID(ctx), utils.SanitizeContent(req.Content)); err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "comments.updated", nil), nil)
}

// DeleteComment removes a comment, author only.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	if err := p.engagement.DeleteComment(ctx.Request.Context(), pathID(ctx, "commentId"), middleware.UserID(ctx)); err != nil {
		respondError(ctx, p.tr, err)
		return
	}
	lang := requestLanguage(ctx, p.tr)
	utils.SuccessMessage(ctx, p.tr.Translate(lang, "comments.deleted", nil), nil)
}
