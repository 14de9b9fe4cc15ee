package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/services"
	"tunevault/internal/storage"
)

// Media creation is multipart: metadata as form fields alongside the audio
// or video file itself, plus optional artwork.
type createMediaForm struct {
	Title       string    `form:"title" binding:"required"`
	Type        int       `form:"type" binding:"required,oneof=1 2"`
	TrackNumber int       `form:"track_number" binding:"required,min=1"`
	ISRC        string    `form:"isrc"`
	Lyric       string    `form:"lyric"`
	ReleaseDate time.Time `form:"release_date" time_format:"2006-01-02"`
}

type updateMediaRequest struct {
	Title       string    `json:"title" binding:"required"`
	TrackNumber int       `json:"track_number" binding:"required,min=1"`
	ISRC        string    `json:"isrc"`
	Lyric       string    `json:"lyric"`
	ReleaseDate time.Time `json:"release_date"`
}

// RelationalMediaHandlers serves media CRUD on the relational backend.
type RelationalMediaHandlers struct {
	catalog *services.RelationalCatalogService
	files   *storage.FileStore
}

func NewRelationalMediaHandlers(catalog *services.RelationalCatalogService, files *storage.FileStore) *RelationalMediaHandlers {
	return &RelationalMediaHandlers{catalog: catalog, files: files}
}

func (h *RelationalMediaHandlers) List(c *gin.Context) {
	medias, err := h.catalog.ListMedias(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}

func (h *RelationalMediaHandlers) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	media, err := h.catalog.GetMedia(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, media)
}

// Stream serves the stored media file.
func (h *RelationalMediaHandlers) Stream(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	media, err := h.catalog.GetMedia(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.Header("Content-Type", storage.ContentType(media.FilePath))
	c.File(h.files.Path(media.FilePath))
}

func (h *RelationalMediaHandlers) Create(c *gin.Context) {
	albumID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var form createMediaForm
	if err := c.ShouldBind(&form); err != nil {
		FailBinding(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		FailBinding(c, err)
		return
	}

	filePath, err := h.files.Save(file, storage.FolderMediaFiles)
	if err != nil {
		Fail(c, err)
		return
	}
	media := &models.Media{
		Title:       form.Title,
		Type:        models.MediaType(form.Type),
		FilePath:    filePath,
		TrackNumber: form.TrackNumber,
		ISRC:        form.ISRC,
		Lyric:       form.Lyric,
		ReleaseDate: form.ReleaseDate,
		AlbumID:     albumID,
	}
	if artwork, err := c.FormFile("artwork"); err == nil {
		path, err := h.files.Save(artwork, storage.FolderMediaArtwork)
		if err != nil {
			Fail(c, err)
			return
		}
		media.ArtworkPath = path
	}

	if err := h.catalog.CreateMedia(c.Request.Context(), media); err != nil {
		// the row never landed, so its files must not linger
		_ = h.files.Delete(media.FilePath)
		_ = h.files.Delete(media.ArtworkPath)
		Fail(c, err)
		return
	}
	OK(c, media)
}

func (h *RelationalMediaHandlers) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var req updateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	media, err := h.catalog.GetMedia(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	media.Title = req.Title
	media.TrackNumber = req.TrackNumber
	media.ISRC = req.ISRC
	media.Lyric = req.Lyric
	media.ReleaseDate = req.ReleaseDate
	if err := h.catalog.UpdateMedia(c.Request.Context(), media); err != nil {
		Fail(c, err)
		return
	}
	OK(c, media)
}

// Move reassigns the media to another album.
func (h *RelationalMediaHandlers) Move(c *gin.Context) {
	mediaID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	albumID, err := uintParam(c, "albumId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.MoveMedia(c.Request.Context(), mediaID, albumID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media moved")
}

func (h *RelationalMediaHandlers) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.DeleteMedia(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media deleted")
}

// DocumentMediaHandlers serves media CRUD on the document backend.
type DocumentMediaHandlers struct {
	catalog *services.DocumentCatalogService
	files   *storage.FileStore
}

func NewDocumentMediaHandlers(catalog *services.DocumentCatalogService, files *storage.FileStore) *DocumentMediaHandlers {
	return &DocumentMediaHandlers{catalog: catalog, files: files}
}

func (h *DocumentMediaHandlers) List(c *gin.Context) {
	medias, err := h.catalog.ListMedias(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, medias)
}

func (h *DocumentMediaHandlers) Get(c *gin.Context) {
	media, err := h.catalog.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, media)
}

func (h *DocumentMediaHandlers) Stream(c *gin.Context) {
	media, err := h.catalog.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.Header("Content-Type", storage.ContentType(media.FilePath))
	c.File(h.files.Path(media.FilePath))
}

func (h *DocumentMediaHandlers) Create(c *gin.Context) {
	albumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		Fail(c, apperr.BadRequestf("invalid album id"))
		return
	}
	var form createMediaForm
	if err := c.ShouldBind(&form); err != nil {
		FailBinding(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		FailBinding(c, err)
		return
	}

	filePath, err := h.files.Save(file, storage.FolderMediaFiles)
	if err != nil {
		Fail(c, err)
		return
	}
	media := models.NewDocMedia(form.Title, models.MediaType(form.Type))
	media.FilePath = filePath
	media.TrackNumber = form.TrackNumber
	media.ISRC = form.ISRC
	media.Lyric = form.Lyric
	media.ReleaseDate = form.ReleaseDate
	media.AlbumID = albumID
	if artwork, err := c.FormFile("artwork"); err == nil {
		path, err := h.files.Save(artwork, storage.FolderMediaArtwork)
		if err != nil {
			Fail(c, err)
			return
		}
		media.ArtworkPath = path
	}

	if err := h.catalog.CreateMedia(c.Request.Context(), media); err != nil {
		_ = h.files.Delete(media.FilePath)
		_ = h.files.Delete(media.ArtworkPath)
		Fail(c, err)
		return
	}
	OK(c, media)
}

func (h *DocumentMediaHandlers) Update(c *gin.Context) {
	var req updateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	media, err := h.catalog.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	media.Title = req.Title
	media.TrackNumber = req.TrackNumber
	media.ISRC = req.ISRC
	media.Lyric = req.Lyric
	media.ReleaseDate = req.ReleaseDate
	if err := h.catalog.UpdateMedia(c.Request.Context(), media); err != nil {
		Fail(c, err)
		return
	}
	OK(c, media)
}

func (h *DocumentMediaHandlers) Move(c *gin.Context) {
	if err := h.catalog.MoveMedia(c.Request.Context(), c.Param("id"), c.Param("albumId")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media moved")
}

func (h *DocumentMediaHandlers) Delete(c *gin.Context) {
	if err := h.catalog.DeleteMedia(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "media deleted")
}
