package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultImageURL = "https://default.image/url.png"

type BlockType string

const (
	BlockTitle     BlockType = "title"
	BlockParagraph BlockType = "paragraph"
)

type ContentBlock struct {
	Type  BlockType `bson:"type" json:"type" validate:"required,oneof=title paragraph"`
	Value string    `bson:"value" json:"value" validate:"required,min=1,max=1000"`
}

type Category string

// Categories is the fixed set a post may be filed under.
var Categories = []Category{
	"Welfare",
	"Environment",
	"Empowerment",
	"Youth",
	"Education",
	"Culture",
	"Harmony",
	"Spirituality",
	"Infrastructure",
	"Events",
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"comment" json:"comment" validate:"required,min=1,max=1000"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type BlogPost struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Data      []ContentBlock       `bson:"data" json:"data" validate:"required,min=1,dive"`
	Image     string               `bson:"image" json:"image" validate:"required"`
	Category  []Category           `bson:"category" json:"category" validate:"required,min=1,dive,oneof=Welfare Environment Empowerment Youth Education Culture Harmony Spirituality Infrastructure Events"`
	Tags      []string             `bson:"tags" json:"tags"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	Views     int64                `bson:"views" json:"views"`
	AdminID   *primitive.ObjectID  `bson:"adminId" json:"adminId,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Normalize trims block values and tags, drops empty tags and fills the
// default image. Slices are never left nil so documents always carry arrays.
func (p *BlogPost) Normalize() {
	for i := range p.Data {
		p.Data[i].Value = strings.TrimSpace(p.Data[i].Value)
	}
	p.Tags = cleanTags(p.Tags)
	p.Image = strings.TrimSpace(p.Image)
	if p.Image == "" {
		p.Image = DefaultImageURL
	}
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

func (p *BlogPost) LikesCount() int { return len(p.Likes) }

func (p *BlogPost) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *BlogPost) AuthoredBy(adminID primitive.ObjectID) bool {
	return p.AdminID != nil && *p.AdminID == adminID
}

// BlogPatch replaces whole fields of a post. Likes, views, comments and
// authorship are not patchable.
type BlogPatch struct {
	Data     *[]ContentBlock `json:"data"`
	Image    *string         `json:"image"`
	Category *[]Category     `json:"category"`
	Tags     *[]string       `json:"tags"`
}

func (b BlogPatch) Empty() bool {
	return b.Data == nil && b.Image == nil && b.Category == nil && b.Tags == nil
}

// Apply copies the set fields onto p.
func (b BlogPatch) Apply(p *BlogPost) {
	if b.Data != nil {
		p.Data = append([]ContentBlock(nil), (*b.Data)...)
	}
	if b.Image != nil {
		p.Image = *b.Image
	}
	if b.Category != nil {
		p.Category = append([]Category(nil), (*b.Category)...)
	}
	if b.Tags != nil {
		p.Tags = append([]string(nil), (*b.Tags)...)
	}
}

type LikeAction string

const (
	Liked   LikeAction = "liked"
	Unliked LikeAction = "unliked"
)

type LikeResult struct {
	Action     LikeAction `json:"action"`
	LikesCount int        `json:"likesCount"`
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
