package player

import (
	"errors"
	"testing"
)

func TestYouTubeID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://cdn.example.com/lessons/intro.mp4", ""},
		{"https://www.youtube.com/watch?v=short", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := YouTubeID(c.url); got != c.want {
			t.Errorf("YouTubeID(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestResolveMedia(t *testing.T) {
	m, err := ResolveMedia("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("resolve youtube: %v", err)
	}
	if m.Kind != MediaKindYouTube || m.YouTubeID != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected media %+v", m)
	}

	m, err = ResolveMedia("https://cdn.example.com/lessons/intro.mp4")
	if err != nil {
		t.Fatalf("resolve file: %v", err)
	}
	if m.Kind != MediaKindFile {
		t.Fatalf("unexpected media %+v", m)
	}
}

func TestResolveMedia_Unavailable(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a url", "ftp://example.com/x.mp4", "https://"} {
		if _, err := ResolveMedia(raw); !errors.Is(err, ErrMediaUnavailable) {
			t.Errorf("ResolveMedia(%q): expected ErrMediaUnavailable, got %v", raw, err)
		}
	}
}
