package domain

import (
	"strings"
	"time"
)

// Post is the content store read model consumed by the crosspost pipeline.
// The authoring workflow lives in a separate service; this side only reads.
type Post struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug           string    `gorm:"column:slug;type:varchar(255);uniqueIndex" json:"slug"`
	Excerpt        string    `gorm:"column:excerpt;type:text" json:"excerpt"`
	Content        string    `gorm:"column:content;type:mediumtext" json:"content"`
	Tags           string    `gorm:"column:tags;type:varchar(500)" json:"tags"`
	AuthorName     string    `gorm:"column:author_name;type:varchar(100)" json:"author_name"`
	CanonicalURL   string    `gorm:"column:canonical_url;type:varchar(500)" json:"canonical_url"`
	InstagramImage *string   `gorm:"column:instagram_image;type:varchar(500)" json:"instagram_image,omitempty"`
	TwitterImage   *string   `gorm:"column:twitter_image;type:varchar(500)" json:"twitter_image,omitempty"`
	FacebookImage  *string   `gorm:"column:facebook_image;type:varchar(500)" json:"facebook_image,omitempty"`
	DiscordImage   *string   `gorm:"column:discord_image;type:varchar(500)" json:"discord_image,omitempty"`
	Status         string    `gorm:"column:status;type:enum('draft','published','deleted');default:'published'" json:"status"`
	PublishedAt    *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// ContentItem is the immutable projection the formatters consume.
// Built once per orchestration run; never written back.
type ContentItem struct {
	ID         uint64
	Title      string
	Excerpt    string
	URL        string
	Tags       []string
	AuthorName string
	// Images maps platform to an override image URL, if one was set
	Images map[Platform]string
}

// ContentItem projects the post into the formatter input
func (p *Post) ContentItem() ContentItem {
	item := ContentItem{
		ID:         p.ID,
		Title:      p.Title,
		Excerpt:    p.Excerpt,
		URL:        p.CanonicalURL,
		AuthorName: p.AuthorName,
		Images:     make(map[Platform]string),
	}

	for _, tag := range strings.Split(p.Tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			item.Tags = append(item.Tags, tag)
		}
	}

	if p.InstagramImage != nil && *p.InstagramImage != "" {
		item.Images[PlatformInstagram] = *p.InstagramImage
	}
	if p.TwitterImage != nil && *p.TwitterImage != "" {
		item.Images[PlatformTwitter] = *p.TwitterImage
	}
	if p.FacebookImage != nil && *p.FacebookImage != "" {
		item.Images[PlatformFacebook] = *p.FacebookImage
	}
	if p.DiscordImage != nil && *p.DiscordImage != "" {
		item.Images[PlatformDiscord] = *p.DiscordImage
	}

	return item
}

// PostResponse is the public read shape of a post
type PostResponse struct {
	ID           uint64     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
	AuthorName   string     `json:"author_name"`
	CanonicalURL string     `json:"canonical_url"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToResponse converts a post to its API shape
func (p *Post) ToResponse() PostResponse {
	item := p.ContentItem()
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Excerpt:      p.Excerpt,
		Content:      p.Content,
		Tags:         item.Tags,
		AuthorName:   p.AuthorName,
		CanonicalURL: p.CanonicalURL,
		PublishedAt:  p.PublishedAt,
		CreatedAt:    p.CreatedAt,
	}
}
