package crosspost

import (
	"fmt"
	"strings"
	"testing"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContent() domain.ContentItem {
	return domain.ContentItem{
		ID:         42,
		Title:      "Shipping a Crosspost Pipeline",
		Excerpt:    "How we fan a single post out to four platforms without double-posting.",
		URL:        "https://blognest.io/posts/shipping-a-crosspost-pipeline",
		Tags:       []string{"golang", "dev-ops", "backend"},
		AuthorName: "Mina",
		Images:     map[domain.Platform]string{},
	}
}

func TestFormatForPlatformDispatch(t *testing.T) {
	content := sampleContent()

	for _, name := range []domain.Platform{"instagram", "Twitter", "FACEBOOK", "Discord"} {
		payload, err := FormatForPlatform(name, content, "")
		require.NoError(t, err, "platform %q", name)
		assert.Equal(t, domain.Platform(strings.ToLower(string(name))), payload.Platform)
	}

	_, err := FormatForPlatform("myspace", content, "")
	assert.ErrorIs(t, err, common.ErrUnsupportedPlatform)
}

func TestFormatInstagram(t *testing.T) {
	content := sampleContent()

	t.Run("default caption", func(t *testing.T) {
		p := FormatInstagram(content, "")
		assert.Contains(t, p.Text, content.Title)
		assert.Contains(t, p.Text, content.Excerpt)
		assert.Contains(t, p.Text, "link in bio")
		assert.Contains(t, p.Text, "#golang")
		assert.Contains(t, p.Text, "#devops") // non-alphanumerics stripped
	})

	t.Run("custom message wins", func(t *testing.T) {
		p := FormatInstagram(content, "Hand-written caption")
		assert.True(t, strings.HasPrefix(p.Text, "Hand-written caption"))
		assert.NotContains(t, p.Text, content.Excerpt)
	})

	t.Run("forty tags yield thirty hashtags", func(t *testing.T) {
		c := sampleContent()
		c.Tags = nil
		for i := 0; i < 40; i++ {
			c.Tags = append(c.Tags, fmt.Sprintf("tag%d", i))
		}
		p := FormatInstagram(c, "")
		assert.Equal(t, 30, strings.Count(p.Text, "#"))
	})

	t.Run("overflow truncates caption only", func(t *testing.T) {
		c := sampleContent()
		c.Excerpt = strings.Repeat("verylongexcerpt ", 400)
		p := FormatInstagram(c, "")

		assert.LessOrEqual(t, len([]rune(p.Text)), 2200)
		assert.Contains(t, p.Text, "...")
		// CTA and hashtags survive verbatim at the tail
		assert.Contains(t, p.Text, "link in bio")
		assert.True(t, strings.HasSuffix(p.Text, "#golang #devops #backend"))
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		for _, n := range []int{0, 10, 100, 1000, 5000} {
			c := sampleContent()
			c.Excerpt = strings.Repeat("x", n)
			p := FormatInstagram(c, "")
			assert.LessOrEqual(t, len([]rune(p.Text)), 2200, "excerpt length %d", n)
		}
	})
}

func TestFormatTwitter(t *testing.T) {
	content := sampleContent()

	t.Run("title with hashtags and link", func(t *testing.T) {
		p := FormatTwitter(content, "")
		lines := strings.Split(p.Text, "\n\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], content.Title)
		assert.Contains(t, lines[0], "#golang")
		assert.Equal(t, content.URL, lines[1])
	})

	t.Run("at most three hashtags", func(t *testing.T) {
		c := sampleContent()
		c.Tags = []string{"one", "two", "three", "four", "five"}
		p := FormatTwitter(c, "")
		assert.Equal(t, 3, strings.Count(p.Text, "#"))
	})

	t.Run("long title truncated within budget", func(t *testing.T) {
		c := sampleContent()
		c.Title = strings.Repeat("longtitle ", 60)
		p := FormatTwitter(c, "")

		firstLine := strings.Split(p.Text, "\n\n")[0]
		// 23 chars budgeted for the link
		assert.LessOrEqual(t, len([]rune(firstLine)), 280-23)
		assert.Contains(t, firstLine, "...")
	})

	t.Run("no link frees the link budget", func(t *testing.T) {
		c := sampleContent()
		c.URL = ""
		c.Tags = nil
		c.Title = strings.Repeat("t", 300)
		p := FormatTwitter(c, "")
		assert.LessOrEqual(t, len([]rune(p.Text)), 280-2)
		assert.NotContains(t, p.Text, "\n\n")
	})
}

func TestFormatFacebook(t *testing.T) {
	content := sampleContent()

	p := FormatFacebook(content, "")
	assert.True(t, strings.HasPrefix(p.Text, "📝 "))
	assert.Contains(t, p.Text, content.Excerpt)
	assert.Contains(t, p.Text, "Read more: "+content.URL)

	custom := FormatFacebook(content, "custom fb text")
	assert.True(t, strings.HasPrefix(custom.Text, "custom fb text"))
	assert.NotContains(t, custom.Text, content.Excerpt)
}

func TestFormatDiscordEmbed(t *testing.T) {
	content := sampleContent()

	t.Run("full embed", func(t *testing.T) {
		p := FormatDiscord(content, "", true)
		require.NotNil(t, p.Embed)
		assert.Equal(t, content.Title, p.Embed.Title)
		assert.Equal(t, content.Excerpt, p.Embed.Description)
		assert.Equal(t, content.URL, p.Embed.URL)
		assert.Equal(t, 0x5865F2, p.Embed.Color)
		require.NotNil(t, p.Embed.Footer)
		assert.Equal(t, "Posted by Mina", p.Embed.Footer.Text)
		assert.NotEmpty(t, p.Embed.Timestamp)
	})

	t.Run("description never empty", func(t *testing.T) {
		c := sampleContent()
		c.Excerpt = ""
		p := FormatDiscord(c, "", true)
		assert.NotEmpty(t, p.Embed.Description)
	})

	t.Run("title fallback", func(t *testing.T) {
		c := sampleContent()
		c.Title = ""
		p := FormatDiscord(c, "", true)
		assert.Equal(t, "New Blog Post", p.Embed.Title)
	})

	t.Run("image only when valid url", func(t *testing.T) {
		c := sampleContent()
		c.Images[domain.PlatformDiscord] = "not a url"
		p := FormatDiscord(c, "", true)
		assert.Nil(t, p.Embed.Image)

		c.Images[domain.PlatformDiscord] = "https://cdn.blognest.io/cover.png"
		p = FormatDiscord(c, "", true)
		require.NotNil(t, p.Embed.Image)
		assert.Equal(t, "https://cdn.blognest.io/cover.png", p.Embed.Image.URL)
	})
}

func TestFormatDiscordPlainText(t *testing.T) {
	content := sampleContent()

	p := FormatDiscord(content, "", false)
	assert.Nil(t, p.Embed)
	assert.True(t, strings.HasPrefix(p.Text, "**"+content.Title+"**"))
	assert.Contains(t, p.Text, content.URL)

	long := sampleContent()
	long.Excerpt = strings.Repeat("description ", 400)
	p = FormatDiscord(long, "", false)
	assert.LessOrEqual(t, len([]rune(p.Text)), 2000)
	assert.Contains(t, p.Text, "...")
}

func TestBuildHashtags(t *testing.T) {
	assert.Equal(t, "#golang #webdev", buildHashtags([]string{"go-lang", "web dev"}, 30))
	assert.Equal(t, "", buildHashtags([]string{"---", "!!!"}, 30))
	assert.Equal(t, "#a #b", buildHashtags([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "", buildHashtags(nil, 30))
}
