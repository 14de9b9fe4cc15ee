package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tunevault/internal/apperr"
	"tunevault/internal/services"
	"tunevault/internal/storage"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=20"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type updateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Bio      string `json:"bio"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// RelationalUserHandlers serves accounts backed by the relational store.
type RelationalUserHandlers struct {
	auth    *services.RelationalAuthService
	catalog *services.RelationalCatalogService
	files   *storage.FileStore
}

func NewRelationalUserHandlers(auth *services.RelationalAuthService, catalog *services.RelationalCatalogService, files *storage.FileStore) *RelationalUserHandlers {
	return &RelationalUserHandlers{auth: auth, catalog: catalog, files: files}
}

func (h *RelationalUserHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *RelationalUserHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, loginResponse{Token: token, User: user})
}

func (h *RelationalUserHandlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "password changed")
}

func (h *RelationalUserHandlers) List(c *gin.Context) {
	users, err := h.catalog.ListUsers(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *RelationalUserHandlers) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.catalog.GetUser(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *RelationalUserHandlers) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.catalog.UpdateUserProfile(c.Request.Context(), userID, req.FullName, req.Bio)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *RelationalUserHandlers) UploadAvatar(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderUserAvatars)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.catalog.SetUserAvatar(c.Request.Context(), userID, path)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *RelationalUserHandlers) Deactivate(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.catalog.DeactivateUser(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "account deactivated")
}

// callerID extracts the relational user id from the token claims.
func callerID(c *gin.Context) (uint, error) {
	claims := CurrentClaims(c)
	if claims == nil {
		return 0, apperr.New(apperr.Unauthorized)
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 32)
	if err != nil {
		return 0, apperr.Unauthorizedf("invalid token subject")
	}
	return uint(id), nil
}

// DocumentUserHandlers serves accounts backed by the document store.
type DocumentUserHandlers struct {
	auth    *services.DocumentAuthService
	catalog *services.DocumentCatalogService
	files   *storage.FileStore
}

func NewDocumentUserHandlers(auth *services.DocumentAuthService, catalog *services.DocumentCatalogService, files *storage.FileStore) *DocumentUserHandlers {
	return &DocumentUserHandlers{auth: auth, catalog: catalog, files: files}
}

func (h *DocumentUserHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *DocumentUserHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, loginResponse{Token: token, User: user})
}

func (h *DocumentUserHandlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "password changed")
}

func (h *DocumentUserHandlers) List(c *gin.Context) {
	users, err := h.catalog.ListUsers(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users)
}

func (h *DocumentUserHandlers) Get(c *gin.Context) {
	user, err := h.catalog.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *DocumentUserHandlers) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBinding(c, err)
		return
	}
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.catalog.UpdateUserProfile(c.Request.Context(), userID, req.FullName, req.Bio)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *DocumentUserHandlers) UploadAvatar(c *gin.Context) {
	userID, err := docCallerID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		FailBinding(c, err)
		return
	}
	path, err := h.files.Save(file, storage.FolderUserAvatars)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.catalog.SetUserAvatar(c.Request.Context(), userID, path)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

func (h *DocumentUserHandlers) Delete(c *gin.Context) {
	if err := h.catalog.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "account deleted")
}

// docCallerID extracts the document user id from the token claims.
func docCallerID(c *gin.Context) (string, error) {
	claims := CurrentClaims(c)
	if claims == nil {
		return "", apperr.New(apperr.Unauthorized)
	}
	return claims.UserID, nil
}
