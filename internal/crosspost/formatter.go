package crosspost

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
)

// Platform hard limits
const (
	instagramCaptionLimit = 2200
	instagramHashtagMax   = 30
	twitterTextLimit      = 280
	twitterHashtagMax     = 3
	twitterLinkBudget     = 23 // platform shortens every link to a fixed width
	facebookTextLimit     = 63206
	discordTextLimit      = 2000
)

const (
	instagramCTA         = "\n\n📖 Read the full post: link in bio!"
	facebookPrefix       = "📝 "
	discordTitleFallback = "New Blog Post"
	discordDescFallback  = "A new post has been published."
	discordEmbedColor    = 0x5865F2
	ellipsis             = "..."
)

// nonAlnum strips everything a hashtag cannot carry
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Payload is a platform-ready rendering of one content item
type Payload struct {
	Platform domain.Platform
	Text     string
	ImageURL string
	LinkURL  string
	// Embed is set for Discord embed mode only
	Embed *DiscordEmbed
}

// DiscordEmbed mirrors the webhook embed object
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      *DiscordEmbedField `json:"footer,omitempty"`
	Timestamp   string             `json:"timestamp"`
	Image       *DiscordEmbedImage `json:"image,omitempty"`
}

// DiscordEmbedField is the footer text wrapper
type DiscordEmbedField struct {
	Text string `json:"text"`
}

// DiscordEmbedImage is the embed image wrapper
type DiscordEmbedImage struct {
	URL string `json:"url"`
}

// FormatForPlatform renders content for the named platform. Platform matching
// is case-insensitive; an unknown name is a hard error, never a silent no-op.
func FormatForPlatform(platform domain.Platform, content domain.ContentItem, customMessage string) (Payload, error) {
	switch domain.Platform(strings.ToLower(string(platform))) {
	case domain.PlatformInstagram:
		return FormatInstagram(content, customMessage), nil
	case domain.PlatformTwitter:
		return FormatTwitter(content, customMessage), nil
	case domain.PlatformFacebook:
		return FormatFacebook(content, customMessage), nil
	case domain.PlatformDiscord:
		return FormatDiscord(content, customMessage, true), nil
	default:
		return Payload{}, fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
}

// FormatInstagram builds the caption + CTA + hashtag block, keeping the
// whole thing within the 2200 character caption limit. Overflow truncates
// the caption portion only; CTA and hashtags survive verbatim.
func FormatInstagram(content domain.ContentItem, customMessage string) Payload {
	caption := customMessage
	if caption == "" {
		caption = content.Title + "\n\n" + content.Excerpt
	}

	hashtags := buildHashtags(content.Tags, instagramHashtagMax)
	fixed := instagramCTA
	if hashtags != "" {
		fixed += "\n\n" + hashtags
	}

	captionRunes := []rune(caption)
	fixedLen := len([]rune(fixed))
	if len(captionRunes)+fixedLen > instagramCaptionLimit {
		available := instagramCaptionLimit - fixedLen - len([]rune(ellipsis))
		if available < 0 {
			available = 0
		}
		caption = string(captionRunes[:available]) + ellipsis
	}

	return Payload{
		Platform: domain.PlatformInstagram,
		Text:     caption + fixed,
		ImageURL: content.Images[domain.PlatformInstagram],
	}
}

// FormatTwitter builds tweet text within the 280 character limit. The link
// consumes a fixed 23 characters regardless of its real length, two more are
// reserved for the blank line separating text from link.
func FormatTwitter(content domain.ContentItem, customMessage string) Payload {
	text := customMessage
	if text == "" {
		text = content.Title
	}

	hashtags := buildHashtags(content.Tags, twitterHashtagMax)

	urlBudget := 0
	if content.URL != "" {
		urlBudget = twitterLinkBudget
	}

	budget := twitterTextLimit - len([]rune(hashtags)) - urlBudget - 2
	if runes := []rune(text); len(runes) > budget {
		cut := budget - len([]rune(ellipsis))
		if cut < 0 {
			cut = 0
		}
		text = string(runes[:cut]) + ellipsis
	}

	line := text
	if hashtags != "" {
		line += " " + hashtags
	}
	if content.URL != "" {
		line += "\n\n" + content.URL
	}

	return Payload{
		Platform: domain.PlatformTwitter,
		Text:     line,
		ImageURL: content.Images[domain.PlatformTwitter],
		LinkURL:  content.URL,
	}
}

// FormatFacebook builds the post text with a read-more link. The 63,206
// character ceiling is practically unreachable but enforced anyway.
func FormatFacebook(content domain.ContentItem, customMessage string) Payload {
	text := customMessage
	if text == "" {
		text = facebookPrefix + content.Title + "\n\n" + content.Excerpt
	}
	if content.URL != "" {
		text += "\n\n👉 Read more: " + content.URL
	}

	if runes := []rune(text); len(runes) > facebookTextLimit {
		text = string(runes[:facebookTextLimit-209]) + ellipsis
	}

	return Payload{
		Platform: domain.PlatformFacebook,
		Text:     text,
		ImageURL: content.Images[domain.PlatformFacebook],
		LinkURL:  content.URL,
	}
}

// FormatDiscord renders either a webhook embed (default) or plain text.
// The embed description is never empty; the image field is attached only
// when the override is a syntactically valid URL.
func FormatDiscord(content domain.ContentItem, customMessage string, embedMode bool) Payload {
	description := customMessage
	if description == "" {
		description = content.Excerpt
	}
	if description == "" {
		description = discordDescFallback
	}

	if embedMode {
		title := content.Title
		if title == "" {
			title = discordTitleFallback
		}

		embed := &DiscordEmbed{
			Title:       title,
			Description: description,
			URL:         content.URL,
			Color:       discordEmbedColor,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
		if content.AuthorName != "" {
			embed.Footer = &DiscordEmbedField{Text: "Posted by " + content.AuthorName}
		}
		if img := content.Images[domain.PlatformDiscord]; common.IsWebURL(img) {
			embed.Image = &DiscordEmbedImage{URL: img}
		}

		return Payload{Platform: domain.PlatformDiscord, Embed: embed, LinkURL: content.URL}
	}

	text := "**" + content.Title + "**\n" + description
	if content.URL != "" {
		text += "\n" + content.URL
	}
	if runes := []rune(text); len(runes) > discordTextLimit {
		text = string(runes[:discordTextLimit-len([]rune(ellipsis))]) + ellipsis
	}

	return Payload{
		Platform: domain.PlatformDiscord,
		Text:     text,
		LinkURL:  content.URL,
	}
}

// buildHashtags cleans tags to alphanumerics, prefixes #, joins with spaces.
// Tags that clean down to nothing are skipped and do not count toward max.
func buildHashtags(tags []string, max int) string {
	var out []string
	for _, tag := range tags {
		if len(out) == max {
			break
		}
		clean := nonAlnum.ReplaceAllString(tag, "")
		if clean == "" {
			continue
		}
		out = append(out, "#"+clean)
	}
	return strings.Join(out, " ")
}
