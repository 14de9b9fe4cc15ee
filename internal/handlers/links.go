package handlers

import (
	"github.com/gin-gonic/gin"

	"tunevault/internal/services"
)

// RelationalLinkHandlers serves follow, like and visit operations on the
// relational backend. The acting user always comes from the token, never
// from the request body.
type RelationalLinkHandlers struct {
	links *services.RelationalLinkService
}

func NewRelationalLinkHandlers(links *services.RelationalLinkService) *RelationalLinkHandlers {
	return &RelationalLinkHandlers{links: links}
}

func (h *RelationalLinkHandlers) Follow(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	artistID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Follow(c.Request.Context(), userID, artistID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist followed")
}

func (h *RelationalLinkHandlers) Unfollow(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	artistID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Unfollow(c.Request.Context(), userID, artistID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist unfollowed")
}

func (h *RelationalLinkHandlers) Like(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Like(c.Request.Context(), userID, mediaID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media liked")
}

func (h *RelationalLinkHandlers) Dislike(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Dislike(c.Request.Context(), userID, mediaID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media disliked")
}

func (h *RelationalLinkHandlers) Visit(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Visit(c.Request.Context(), userID, mediaID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "visit recorded")
}

func (h *RelationalLinkHandlers) Followings(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	artists, err := h.links.Followings(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artists)
}

func (h *RelationalLinkHandlers) Followers(c *gin.Context) {
	artistID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	users, err := h.links.Followers(c.Request.Context(), artistID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *RelationalLinkHandlers) LikedMedias(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	medias, err := h.links.LikedMedias(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}

func (h *RelationalLinkHandlers) LikedUsers(c *gin.Context) {
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	users, err := h.links.LikedUsers(c.Request.Context(), mediaID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *RelationalLinkHandlers) VisitedUsers(c *gin.Context) {
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	users, err := h.links.VisitedUsers(c.Request.Context(), mediaID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *RelationalLinkHandlers) VisitedMedias(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	medias, err := h.links.VisitedMedias(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}

// DocumentLinkHandlers serves follow, like and visit operations on the
// document backend.
type DocumentLinkHandlers struct {
	links *services.DocumentLinkService
}

func NewDocumentLinkHandlers(links *services.DocumentLinkService) *DocumentLinkHandlers {
	return &DocumentLinkHandlers{links: links}
}

func (h *DocumentLinkHandlers) Follow(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist followed")
}

func (h *DocumentLinkHandlers) Unfollow(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist unfollowed")
}

func (h *DocumentLinkHandlers) Like(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Like(c.Request.Context(), userID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media liked")
}

func (h *DocumentLinkHandlers) Dislike(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Dislike(c.Request.Context(), userID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media disliked")
}

func (h *DocumentLinkHandlers) Visit(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.links.Visit(c.Request.Context(), userID, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "visit recorded")
}

func (h *DocumentLinkHandlers) Followings(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	artists, err := h.links.Followings(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artists)
}

func (h *DocumentLinkHandlers) Followers(c *gin.Context) {
	users, err := h.links.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *DocumentLinkHandlers) LikedMedias(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	medias, err := h.links.LikedMedias(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}

func (h *DocumentLinkHandlers) LikedUsers(c *gin.Context) {
	users, err := h.links.LikedUsers(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *DocumentLinkHandlers) VisitedUsers(c *gin.Context) {
	users, err := h.links.VisitedUsers(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *DocumentLinkHandlers) VisitedMedias(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	medias, err := h.links.VisitedMedias(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}
