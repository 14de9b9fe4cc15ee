package models

import (
	"time"
)

// Role names used for authorization.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// MediaType distinguishes plain audio tracks from music videos.
type MediaType int

const (
	MediaTypeMusic MediaType = iota + 1
	MediaTypeMusicVideo
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeMusic:
		return "music"
	case MediaTypeMusicVideo:
		return "music_video"
	default:
		return "unknown"
	}
}

// User is the relational account entity. Relationship collections are
// maintained through the join entities below, never by raw id lists.
type User struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Username         string `gorm:"uniqueIndex;size:20;not null" json:"username"`
	PasswordHash     string `gorm:"not null" json:"-"`
	SecurityStamp    string `json:"-"`
	ConcurrencyStamp string `json:"-"`
	FullName         string `gorm:"size:100;not null" json:"full_name"`
	Bio              string `json:"bio,omitempty"`
	AvatarPath       string `json:"avatar_path,omitempty"`
	IsActive         bool   `json:"is_active"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`

	FollowingArtists []Following    `gorm:"foreignKey:UserID" json:"-"`
	LikedMedias      []LikedMedia   `gorm:"foreignKey:UserID" json:"-"`
	VisitedMedias    []VisitedMedia `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role is a named authorization role.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string `gorm:"size:100" json:"description,omitempty"`
}

// Artist is a performer owning albums and followed by users.
type Artist struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `json:"full_name,omitempty"`
	ArtisticName string    `gorm:"size:100;not null" json:"artistic_name"`
	BirthDate    time.Time `json:"birth_date,omitempty"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	Bio          string    `json:"bio,omitempty"`

	Albums    []Album     `gorm:"many2many:album_artists" json:"albums,omitempty"`
	Followers []Following `gorm:"foreignKey:ArtistID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Album groups medias and belongs to one or more artists.
type Album struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Genre       string    `gorm:"size:100;not null" json:"genre"`
	ReleaseDate time.Time `gorm:"not null" json:"release_date"`
	IsComplete  bool      `json:"is_complete"`
	IsSingle    bool      `json:"is_single"`
	Copyright   string    `json:"copyright,omitempty"`
	ArtworkPath string    `json:"artwork_path,omitempty"`

	Artists []Artist `gorm:"many2many:album_artists" json:"artists,omitempty"`
	Medias  []Media  `gorm:"foreignKey:AlbumID" json:"medias,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Media is a single track or music video belonging to exactly one album.
type Media struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Type        MediaType `gorm:"not null" json:"type"`
	FilePath    string    `gorm:"not null" json:"file_path"`
	ArtworkPath string    `json:"artwork_path,omitempty"`
	ReleaseDate time.Time `json:"release_date,omitempty"`
	ISRC        string    `json:"isrc,omitempty"`
	TrackNumber int       `gorm:"not null" json:"track_number"`
	Lyric       string    `json:"lyric,omitempty"`

	AlbumID uint   `gorm:"not null" json:"album_id"`
	Album   *Album `gorm:"foreignKey:AlbumID" json:"album,omitempty"`

	LikedUsers   []LikedMedia   `gorm:"foreignKey:MediaID" json:"-"`
	VisitedUsers []VisitedMedia `gorm:"foreignKey:MediaID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table the link queries join against; the default
// naming strategy treats "media" as already plural.
func (Media) TableName() string { return "medias" }

// Following is the join row for a (user, artist) follow pair.
// The composite key makes duplicates impossible at the storage level.
type Following struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ArtistID  uint      `gorm:"primaryKey;autoIncrement:false" json:"artist_id"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Artist *Artist `gorm:"foreignKey:ArtistID" json:"-"`
}

func (Following) TableName() string { return "followings" }

// LikedMedia is the join row for a (user, media) like pair.
type LikedMedia struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MediaID   uint      `gorm:"primaryKey;autoIncrement:false" json:"media_id"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Media *Media `gorm:"foreignKey:MediaID" json:"-"`
}

func (LikedMedia) TableName() string { return "liked_medias" }

// VisitedMedia is the join row for a (user, media) visit pair. Re-visiting
// replaces the row so the timestamp reflects the latest visit.
type VisitedMedia struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MediaID   uint      `gorm:"primaryKey;autoIncrement:false" json:"media_id"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Media *Media `gorm:"foreignKey:MediaID" json:"-"`
}

func (VisitedMedia) TableName() string { return "visited_medias" }
