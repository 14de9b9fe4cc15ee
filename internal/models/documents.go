package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is implemented by every document-backend entity. InsertOne assigns
// a time-ordered ObjectID through SetID.
type Document interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
	CollectionName() string
}

// DocUser is the document-backend replica of User. Relationships are
// two-way ObjectID lists: every link appears on both related documents so
// neither side needs a join query. There is no per-link timestamp here --
// that precision only exists on the relational side.
type DocUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	PasswordHash     string             `bson:"password_hash" json:"-"`
	SecurityStamp    string             `bson:"security_stamp" json:"-"`
	ConcurrencyStamp string             `bson:"concurrency_stamp" json:"-"`
	FullName         string             `bson:"full_name" json:"full_name"`
	Bio              string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarPath       string             `bson:"avatar_path,omitempty" json:"avatar_path,omitempty"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	Roles            []string           `bson:"roles" json:"roles,omitempty"`

	FollowingArtists []primitive.ObjectID `bson:"following_artists" json:"-"`
	LikedMedias      []primitive.ObjectID `bson:"liked_medias" json:"-"`
	VisitedMedias    []primitive.ObjectID `bson:"visited_medias" json:"-"`
}

func (u *DocUser) GetID() primitive.ObjectID   { return u.ID }
func (u *DocUser) SetID(id primitive.ObjectID) { u.ID = id }
func (u *DocUser) CollectionName() string      { return "users" }

// DocArtist is the document-backend replica of Artist.
type DocArtist struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	ArtisticName string             `bson:"artistic_name" json:"artistic_name"`
	BirthDate    time.Time          `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	AvatarPath   string             `bson:"avatar_path,omitempty" json:"avatar_path,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`

	Followers []primitive.ObjectID `bson:"followers" json:"-"`
	Albums    []primitive.ObjectID `bson:"albums" json:"-"`
}

func (a *DocArtist) GetID() primitive.ObjectID   { return a.ID }
func (a *DocArtist) SetID(id primitive.ObjectID) { a.ID = id }
func (a *DocArtist) CollectionName() string      { return "artists" }

// DocAlbum is the document-backend replica of Album.
type DocAlbum struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Genre       string             `bson:"genre" json:"genre"`
	ReleaseDate time.Time          `bson:"release_date" json:"release_date"`
	IsComplete  bool               `bson:"is_complete" json:"is_complete"`
	IsSingle    bool               `bson:"is_single" json:"is_single"`
	Copyright   string             `bson:"copyright,omitempty" json:"copyright,omitempty"`
	ArtworkPath string             `bson:"artwork_path,omitempty" json:"artwork_path,omitempty"`

	Artists []primitive.ObjectID `bson:"artists" json:"-"`
	Medias  []primitive.ObjectID `bson:"medias" json:"-"`
}

func (a *DocAlbum) GetID() primitive.ObjectID   { return a.ID }
func (a *DocAlbum) SetID(id primitive.ObjectID) { a.ID = id }
func (a *DocAlbum) CollectionName() string      { return "albums" }

// DocMedia is the document-backend replica of Media.
type DocMedia struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Type        MediaType          `bson:"type" json:"type"`
	FilePath    string             `bson:"file_path" json:"file_path"`
	ArtworkPath string             `bson:"artwork_path,omitempty" json:"artwork_path,omitempty"`
	ReleaseDate time.Time          `bson:"release_date,omitempty" json:"release_date,omitempty"`
	ISRC        string             `bson:"isrc,omitempty" json:"isrc,omitempty"`
	TrackNumber int                `bson:"track_number" json:"track_number"`
	Lyric       string             `bson:"lyric,omitempty" json:"lyric,omitempty"`

	AlbumID primitive.ObjectID `bson:"album_id" json:"album_id"`

	LikedUsers   []primitive.ObjectID `bson:"liked_users" json:"-"`
	VisitedUsers []primitive.ObjectID `bson:"visited_users" json:"-"`
}

func (m *DocMedia) GetID() primitive.ObjectID   { return m.ID }
func (m *DocMedia) SetID(id primitive.ObjectID) { m.ID = id }
func (m *DocMedia) CollectionName() string      { return "medias" }

// NewDocUser creates a document user with initialized link lists.
func NewDocUser(username, fullName string) *DocUser {
	return &DocUser{
		Username:         username,
		FullName:         fullName,
		IsActive:         true,
		Roles:            []string{},
		FollowingArtists: []primitive.ObjectID{},
		LikedMedias:      []primitive.ObjectID{},
		VisitedMedias:    []primitive.ObjectID{},
	}
}

// NewDocArtist creates a document artist with initialized link lists.
func NewDocArtist(artisticName string) *DocArtist {
	return &DocArtist{
		ArtisticName: artisticName,
		Followers:    []primitive.ObjectID{},
		Albums:       []primitive.ObjectID{},
	}
}

// NewDocAlbum creates a document album with initialized link lists.
func NewDocAlbum(title string) *DocAlbum {
	return &DocAlbum{
		Title:   title,
		Artists: []primitive.ObjectID{},
		Medias:  []primitive.ObjectID{},
	}
}

// NewDocMedia creates a document media with initialized link lists.
func NewDocMedia(title string, mediaType MediaType) *DocMedia {
	return &DocMedia{
		Title:        title,
		Type:         mediaType,
		LikedUsers:   []primitive.ObjectID{},
		VisitedUsers: []primitive.ObjectID{},
	}
}
