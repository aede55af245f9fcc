package crosspost

import (
	"fmt"
	"math"
	"strings"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
)

// aspectTolerance allows 1% slack when matching target ratios
const aspectTolerance = 0.01

// ImageDimensions is a width/height pair in pixels
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RecommendedImageDimensions returns the dimensions the UI should suggest
// for a platform's override image.
func RecommendedImageDimensions(platform domain.Platform) (ImageDimensions, error) {
	switch domain.Platform(strings.ToLower(string(platform))) {
	case domain.PlatformInstagram:
		return ImageDimensions{Width: 1080, Height: 1080}, nil
	case domain.PlatformTwitter:
		return ImageDimensions{Width: 1200, Height: 675}, nil
	case domain.PlatformFacebook:
		return ImageDimensions{Width: 1200, Height: 630}, nil
	case domain.PlatformDiscord:
		return ImageDimensions{Width: 1280, Height: 720}, nil
	default:
		return ImageDimensions{}, fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
}

// ValidateImageDimensions checks a candidate image against the platform's
// aspect-ratio and minimum-size rules. A nil error means the image is usable.
func ValidateImageDimensions(platform domain.Platform, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	ratio := float64(width) / float64(height)

	switch domain.Platform(strings.ToLower(string(platform))) {
	case domain.PlatformInstagram:
		// Square 1:1 or portrait 4:5, within tolerance
		if width < 320 || height < 320 {
			return fmt.Errorf("instagram requires at least 320x320, got %dx%d", width, height)
		}
		if !ratioMatches(ratio, 1.0) && !ratioMatches(ratio, 0.8) {
			return fmt.Errorf("instagram requires 1:1 or 4:5 aspect ratio, got %dx%d", width, height)
		}
	case domain.PlatformTwitter:
		if width < 600 || height < 335 {
			return fmt.Errorf("twitter requires at least 600x335, got %dx%d", width, height)
		}
		if ratio <= 1.0 {
			return fmt.Errorf("twitter requires a landscape image, got %dx%d", width, height)
		}
	case domain.PlatformFacebook:
		if width < 600 || height < 315 {
			return fmt.Errorf("facebook requires at least 600x315, got %dx%d", width, height)
		}
		if ratio <= 1.0 {
			return fmt.Errorf("facebook requires a landscape image, got %dx%d", width, height)
		}
	case domain.PlatformDiscord:
		if width < 100 || height < 100 {
			return fmt.Errorf("discord requires at least 100x100, got %dx%d", width, height)
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}

	return nil
}

func ratioMatches(ratio, target float64) bool {
	return math.Abs(ratio-target) <= target*aspectTolerance
}
