package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tunevault/internal/models"
	"tunevault/internal/services"
	"tunevault/internal/storage"
)

type createAlbumRequest struct {
	Title       string    `json:"title" binding:"required"`
	Genre       string    `json:"genre" binding:"required"`
	ReleaseDate time.Time `json:"release_date" binding:"required"`
	IsSingle    bool      `json:"is_single"`
	Copyright   string    `json:"copyright"`
}

type createRelationalAlbumRequest struct {
	createAlbumRequest
	ArtistIDs []uint `json:"artist_ids" binding:"required,min=1"`
}

type createDocumentAlbumRequest struct {
	createAlbumRequest
	ArtistIDs []string `json:"artist_ids" binding:"required,min=1"`
}

type updateAlbumRequest struct {
	Title       string    `json:"title" binding:"required"`
	Genre       string    `json:"genre" binding:"required"`
	ReleaseDate time.Time `json:"release_date" binding:"required"`
	IsSingle    bool      `json:"is_single"`
	IsComplete  bool      `json:"is_complete"`
	Copyright   string    `json:"copyright"`
}

// RelationalAlbumHandlers serves album CRUD on the relational backend.
type RelationalAlbumHandlers struct {
	catalog *services.RelationalCatalogService
	files   *storage.FileStore
}

func NewRelationalAlbumHandlers(catalog *services.RelationalCatalogService, files *storage.FileStore) *RelationalAlbumHandlers {
	return &RelationalAlbumHandlers{catalog: catalog, files: files}
}

func (h *RelationalAlbumHandlers) List(c *gin.Context) {
	albums, err := h.catalog.ListAlbums(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, albums)
}

func (h *RelationalAlbumHandlers) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	album, err := h.catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *RelationalAlbumHandlers) Create(c *gin.Context) {
	var req createRelationalAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	album := &models.Album{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseDate: req.ReleaseDate,
		IsSingle:    req.IsSingle,
		Copyright:   req.Copyright,
	}
	if err := h.catalog.CreateAlbum(c.Request.Context(), album, req.ArtistIDs); err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *RelationalAlbumHandlers) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var req updateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	album, err := h.catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	album.Title = req.Title
	album.Genre = req.Genre
	album.ReleaseDate = req.ReleaseDate
	album.IsSingle = req.IsSingle
	album.IsComplete = req.IsComplete
	album.Copyright = req.Copyright
	if err := h.catalog.UpdateAlbum(c.Request.Context(), album); err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *RelationalAlbumHandlers) UploadArtwork(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	album, err := h.catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("artwork")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderAlbumArtwork)
	if err != nil {
		Fail(c, err)
		return
	}
	old := album.ArtworkPath
	album.ArtworkPath = path
	if err := h.catalog.UpdateAlbum(c.Request.Context(), album); err != nil {
		Fail(c, err)
		return
	}
	if old != "" {
		_ = h.files.Delete(old)
	}
	OK(c, album)
}

func (h *RelationalAlbumHandlers) AddArtist(c *gin.Context) {
	albumID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	artistID, err := uintParam(c, "artistId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.AddAlbumArtist(c.Request.Context(), albumID, artistID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist linked")
}

func (h *RelationalAlbumHandlers) RemoveArtist(c *gin.Context) {
	albumID, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	artistID, err := uintParam(c, "artistId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.RemoveAlbumArtist(c.Request.Context(), albumID, artistID); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist unlinked")
}

func (h *RelationalAlbumHandlers) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.DeleteAlbum(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "album deleted")
}

// DocumentAlbumHandlers serves album CRUD on the document backend.
type DocumentAlbumHandlers struct {
	catalog *services.DocumentCatalogService
	files   *storage.FileStore
}

func NewDocumentAlbumHandlers(catalog *services.DocumentCatalogService, files *storage.FileStore) *DocumentAlbumHandlers {
	return &DocumentAlbumHandlers{catalog: catalog, files: files}
}

func (h *DocumentAlbumHandlers) List(c *gin.Context) {
	albums, err := h.catalog.ListAlbums(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, albums)
}

func (h *DocumentAlbumHandlers) Get(c *gin.Context) {
	album, err := h.catalog.GetAlbum(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *DocumentAlbumHandlers) Create(c *gin.Context) {
	var req createDocumentAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	album := models.NewDocAlbum(req.Title)
	album.Genre = req.Genre
	album.ReleaseDate = req.ReleaseDate
	album.IsSingle = req.IsSingle
	album.Copyright = req.Copyright
	if err := h.catalog.CreateAlbum(c.Request.Context(), album, req.ArtistIDs); err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *DocumentAlbumHandlers) Update(c *gin.Context) {
	var req updateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	album, err := h.catalog.GetAlbum(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	album.Title = req.Title
	album.Genre = req.Genre
	album.ReleaseDate = req.ReleaseDate
	album.IsSingle = req.IsSingle
	album.IsComplete = req.IsComplete
	album.Copyright = req.Copyright
	if err := h.catalog.UpdateAlbum(c.Request.Context(), album); err != nil {
		Fail(c, err)
		return
	}
	OK(c, album)
}

func (h *DocumentAlbumHandlers) UploadArtwork(c *gin.Context) {
	album, err := h.catalog.GetAlbum(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("artwork")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderAlbumArtwork)
	if err != nil {
		Fail(c, err)
		return
	}
	old := album.ArtworkPath
	album.ArtworkPath = path
	if err := h.catalog.UpdateAlbum(c.Request.Context(), album); err != nil {
		Fail(c, err)
		return
	}
	if old != "" {
		_ = h.files.Delete(old)
	}
	OK(c, album)
}

func (h *DocumentAlbumHandlers) AddArtist(c *gin.Context) {
	if err := h.catalog.AddAlbumArtist(c.Request.Context(), c.Param("id"), c.Param("artistId")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist linked")
}

func (h *DocumentAlbumHandlers) RemoveArtist(c *gin.Context) {
	if err := h.catalog.RemoveAlbumArtist(c.Request.Context(), c.Param("id"), c.Param("artistId")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "artist unlinked")
}

func (h *DocumentAlbumHandlers) Delete(c *gin.Context) {
	if err := h.catalog.DeleteAlbum(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "album deleted")
}
