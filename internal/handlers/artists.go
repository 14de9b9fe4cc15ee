package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tunevault/internal/models"
	"tunevault/internal/services"
	"tunevault/internal/storage"
)

type artistRequest struct {
	ArtisticName string    `json:"artistic_name" binding:"required"`
	FullName     string    `json:"full_name"`
	BirthDate    time.Time `json:"birth_date"`
	Bio          string    `json:"bio"`
}

// RelationalArtistHandlers serves artist CRUD on the relational backend.
type RelationalArtistHandlers struct {
	catalog *services.RelationalCatalogService
	files   *storage.FileStore
}

func NewRelationalArtistHandlers(catalog *services.RelationalCatalogService, files *storage.FileStore) *RelationalArtistHandlers {
	return &RelationalArtistHandlers{catalog: catalog, files: files}
}

func (h *RelationalArtistHandlers) List(c *gin.Context) {
	artists, err := h.catalog.ListArtists(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artists)
}

func (h *RelationalArtistHandlers) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	artist, err := h.catalog.GetArtist(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *RelationalArtistHandlers) Create(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	artist := &models.Artist{
		ArtisticName: req.ArtisticName,
		FullName:     req.FullName,
		BirthDate:    req.BirthDate,
		Bio:          req.Bio,
	}
	if err := h.catalog.CreateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *RelationalArtistHandlers) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	artist, err := h.catalog.GetArtist(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	artist.ArtisticName = req.ArtisticName
	artist.FullName = req.FullName
	artist.BirthDate = req.BirthDate
	artist.Bio = req.Bio
	if err := h.catalog.UpdateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *RelationalArtistHandlers) UploadAvatar(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	artist, err := h.catalog.GetArtist(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderArtistAvatars)
	if err != nil {
		Fail(c, err)
		return
	}
	old := artist.AvatarPath
	artist.AvatarPath = path
	if err := h.catalog.UpdateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	if old != "" {
		_ = h.files.Delete(old)
	}
	OK(c, artist)
}

func (h *RelationalArtistHandlers) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.DeleteArtist(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist deleted")
}

// DocumentArtistHandlers serves artist CRUD on the document backend.
type DocumentArtistHandlers struct {
	catalog *services.DocumentCatalogService
	files   *storage.FileStore
}

func NewDocumentArtistHandlers(catalog *services.DocumentCatalogService, files *storage.FileStore) *DocumentArtistHandlers {
	return &DocumentArtistHandlers{catalog: catalog, files: files}
}

func (h *DocumentArtistHandlers) List(c *gin.Context) {
	artists, err := h.catalog.ListArtists(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artists)
}

func (h *DocumentArtistHandlers) Get(c *gin.Context) {
	artist, err := h.catalog.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *DocumentArtistHandlers) Create(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	artist := models.NewDocArtist(req.ArtisticName)
	artist.FullName = req.FullName
	artist.BirthDate = req.BirthDate
	artist.Bio = req.Bio
	if err := h.catalog.CreateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *DocumentArtistHandlers) Update(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	artist, err := h.catalog.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	artist.ArtisticName = req.ArtisticName
	artist.FullName = req.FullName
	artist.BirthDate = req.BirthDate
	artist.Bio = req.Bio
	if err := h.catalog.UpdateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	OK(c, artist)
}

func (h *DocumentArtistHandlers) UploadAvatar(c *gin.Context) {
	artist, err := h.catalog.GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderArtistAvatars)
	if err != nil {
		Fail(c, err)
		return
	}
	old := artist.AvatarPath
	artist.AvatarPath = path
	if err := h.catalog.UpdateArtist(c.Request.Context(), artist); err != nil {
		Fail(c, err)
		return
	}
	if old != "" {
		_ = h.files.Delete(old)
	}
	OK(c, artist)
}

func (h *DocumentArtistHandlers) Delete(c *gin.Context) {
	if err := h.catalog.DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist deleted")
}
