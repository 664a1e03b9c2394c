package player

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrMediaUnavailable marks a lesson whose media reference cannot be
// played. No guard session is opened and no tracking happens for it.
var ErrMediaUnavailable = errors.New("media unavailable")

const (
	MediaKindFile    = "file"
	MediaKindYouTube = "youtube"
)

// Media describes a resolved, playable media reference.
type Media struct {
	Kind      string `json:"kind"`
	URL       string `json:"url"`
	YouTubeID string `json:"youtube_id,omitempty"`
}

var youTubeIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// YouTubeID extracts the 11-character video id from a YouTube URL, or ""
// when the URL is not a YouTube reference.
func YouTubeID(rawURL string) string {
	m := youTubeIDPattern.FindStringSubmatch(rawURL)
	if len(m) == 2 && len(m[1]) == 11 {
		return m[1]
	}
	return ""
}

// ResolveMedia validates a lesson's media reference and classifies it.
func ResolveMedia(rawURL string) (Media, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Media{}, ErrMediaUnavailable
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Media{}, ErrMediaUnavailable
	}
	if id := YouTubeID(rawURL); id != "" {
		return Media{Kind: MediaKindYouTube, URL: rawURL, YouTubeID: id}, nil
	}
	return Media{Kind: MediaKindFile, URL: rawURL}, nil
}
