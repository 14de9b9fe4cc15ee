package handlers

import (
	"github.com/gin-gonic/gin"

	"tunevault/internal/models"
	"tunevault/internal/services"
)

// RelationalAPI bundles the handlers mounted under /api/v1.
type RelationalAPI struct {
	Users   *RelationalUserHandlers
	Artists *RelationalArtistHandlers
	Albums  *RelationalAlbumHandlers
	Medias  *RelationalMediaHandlers
	Links   *RelationalLinkHandlers
}

// DocumentAPI bundles the handlers mounted under /api/v2.
type DocumentAPI struct {
	Users   *DocumentUserHandlers
	Artists *DocumentArtistHandlers
	Albums  *DocumentAlbumHandlers
	Medias  *DocumentMediaHandlers
	Links   *DocumentLinkHandlers
}

// NewRouter builds the gin engine with both API versions. v1 addresses
// entities by integer id against the relational store; v2 addresses them by
// ObjectID hex against the document store. The route shapes are otherwise
// identical.
func NewRouter(tokens *services.TokenService, v1 *RelationalAPI, v2 *DocumentAPI) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		OKMessage(c, "ok")
	})

	auth := Authenticated(tokens)
	admin := RequireRole(models.RoleAdmin)

	{
		api := router.Group("/api/v1")
		api.POST("/auth/register", v1.Users.Register)
		api.POST("/auth/login", v1.Users.Login)
		api.POST("/auth/change-password", auth, v1.Users.ChangePassword)

		api.GET("/users", auth, admin, v1.Users.List)
		api.GET("/users/:id", auth, v1.Users.Get)
		api.POST("/users/profile", auth, v1.Users.UpdateProfile)
		api.POST("/users/avatar", auth, v1.Users.UploadAvatar)
		api.DELETE("/users/:id", auth, admin, v1.Users.Deactivate)

		api.GET("/artists", v1.Artists.List)
		api.GET("/artists/:id", v1.Artists.Get)
		api.POST("/artists", auth, admin, v1.Artists.Create)
		api.POST("/artists/:id", auth, admin, v1.Artists.Update)
		api.POST("/artists/:id/avatar", auth, admin, v1.Artists.UploadAvatar)
		api.DELETE("/artists/:id", auth, admin, v1.Artists.Delete)
		api.GET("/artists/:id/followers", auth, admin, v1.Links.Followers)
		api.POST("/artists/:id/follow", auth, v1.Links.Follow)
		api.POST("/artists/:id/unfollow", auth, v1.Links.Unfollow)

		api.GET("/albums", v1.Albums.List)
		api.GET("/albums/:id", v1.Albums.Get)
		api.POST("/albums", auth, admin, v1.Albums.Create)
		api.POST("/albums/:id", auth, admin, v1.Albums.Update)
		api.POST("/albums/:id/artwork", auth, admin, v1.Albums.UploadArtwork)
		api.POST("/albums/:id/artists/:artistId", auth, admin, v1.Albums.AddArtist)
		api.DELETE("/albums/:id/artists/:artistId", auth, admin, v1.Albums.RemoveArtist)
		api.DELETE("/albums/:id", auth, admin, v1.Albums.Delete)
		api.POST("/albums/:id/medias", auth, admin, v1.Medias.Create)

		api.GET("/medias", v1.Medias.List)
		api.GET("/medias/:id", v1.Medias.Get)
		api.GET("/medias/:id/stream", auth, v1.Medias.Stream)
		api.POST("/medias/:id", auth, admin, v1.Medias.Update)
		api.POST("/medias/:id/move/:albumId", auth, admin, v1.Medias.Move)
		api.DELETE("/medias/:id", auth, admin, v1.Medias.Delete)
		api.POST("/medias/:id/like", auth, v1.Links.Like)
		api.POST("/medias/:id/dislike", auth, v1.Links.Dislike)
		api.POST("/medias/:id/visit", auth, v1.Links.Visit)
		api.GET("/medias/:id/likes", auth, admin, v1.Links.LikedUsers)
		api.GET("/medias/:id/visits", auth, admin, v1.Links.VisitedUsers)

		api.GET("/me/followings", auth, v1.Links.Followings)
		api.GET("/me/likes", auth, v1.Links.LikedMedias)
		api.GET("/me/visits", auth, v1.Links.VisitedMedias)
	}

	{
		api := router.Group("/api/v2")
		api.POST("/auth/register", v2.Users.Register)
		api.POST("/auth/login", v2.Users.Login)
		api.POST("/auth/change-password", auth, v2.Users.ChangePassword)

		api.GET("/users", auth, admin, v2.Users.List)
		api.GET("/users/:id", auth, v2.Users.Get)
		api.POST("/users/profile", auth, v2.Users.UpdateProfile)
		api.POST("/users/avatar", auth, v2.Users.UploadAvatar)
		api.DELETE("/users/:id", auth, admin, v2.Users.Delete)

		api.GET("/artists", v2.Artists.List)
		api.GET("/artists/:id", v2.Artists.Get)
		api.POST("/artists", auth, admin, v2.Artists.Create)
		api.POST("/artists/:id", auth, admin, v2.Artists.Update)
		api.POST("/artists/:id/avatar", auth, admin, v2.Artists.UploadAvatar)
		api.DELETE("/artists/:id", auth, admin, v2.Artists.Delete)
		api.GET("/artists/:id/followers", auth, admin, v2.Links.Followers)
		api.POST("/artists/:id/follow", auth, v2.Links.Follow)
		api.POST("/artists/:id/unfollow", auth, v2.Links.Unfollow)

		api.GET("/albums", v2.Albums.List)
		api.GET("/albums/:id", v2.Albums.Get)
		api.POST("/albums", auth, admin, v2.Albums.Create)
		api.POST("/albums/:id", auth, admin, v2.Albums.Update)
		api.POST("/albums/:id/artwork", auth, admin, v2.Albums.UploadArtwork)
		api.POST("/albums/:id/artists/:artistId", auth, admin, v2.Albums.AddArtist)
		api.DELETE("/albums/:id/artists/:artistId", auth, admin, v2.Albums.RemoveArtist)
		api.DELETE("/albums/:id", auth, admin, v2.Albums.Delete)
		api.POST("/albums/:id/medias", auth, admin, v2.Medias.Create)

		api.GET("/medias", v2.Medias.List)
		api.GET("/medias/:id", v2.Medias.Get)
		api.GET("/medias/:id/stream", auth, v2.Medias.Stream)
		api.POST("/medias/:id", auth, admin, v2.Medias.Update)
		api.POST("/medias/:id/move/:albumId", auth, admin, v2.Medias.Move)
		api.DELETE("/medias/:id", auth, admin, v2.Medias.Delete)
		api.POST("/medias/:id/like", auth, v2.Links.Like)
		api.POST("/medias/:id/dislike", auth, v2.Links.Dislike)
		api.POST("/medias/:id/visit", auth, v2.Links.Visit)
		api.GET("/medias/:id/likes", auth, admin, v2.Links.LikedUsers)
		api.GET("/medias/:id/visits", auth, admin, v2.Links.VisitedUsers)

		api.GET("/me/followings", auth, v2.Links.Followings)
		api.GET("/me/likes", auth, v2.Links.LikedMedias)
		api.GET("/me/visits", auth, v2.Links.VisitedMedias)
	}

	return router
}
