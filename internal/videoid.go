package internal

import (
	"fmt"
	"regexp"
	"strings"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// ExtractVideoID finds the 11-character YouTube id in a link or bare id
func ExtractVideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ThumbnailURL returns the max resolution thumbnail for a video
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// FallbackThumbnailURL returns the thumbnail that exists for every video
func FallbackThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// WatchURL returns the canonical watch page for a video
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
