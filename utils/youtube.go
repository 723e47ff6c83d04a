package utils

import (
	"net/url"
	"strings"
)

// EmbedURL maps a youtube.com watch URL or a youtu.be short link to its
// embeddable form. Unrecognized hosts yield an empty string.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	switch u.Hostname() {
	case "www.youtube.com", "youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case "youtu.be":
		if id := strings.TrimPrefix(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}

	return ""
}
