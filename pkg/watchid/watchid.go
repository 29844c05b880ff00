// Package watchid extracts YouTube video ids from the URL-shaped fields of a
// watch-history export.
package watchid

import (
	"net/url"
	"regexp"
	"strings"
)

// idRe matches YouTube video ids: 11 characters of alphanumeric, dash, underscore.
var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Valid reports whether s looks like a YouTube video id.
func Valid(s string) bool {
	return idRe.MatchString(s)
}

// FromURL extracts the video id from a watch-history URL. Supported shapes:
// watch?v=ID, youtu.be/ID, /shorts/ID, /embed/ID, /live/ID. Returns false for
// anything unresolvable; callers skip such entries without error.
func FromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if v := u.Query().Get("v"); Valid(v) {
		return v, true
	}

	host := strings.ToLower(u.Hostname())
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	if host == "youtu.be" && len(segs) >= 1 && Valid(segs[0]) {
		return segs[0], true
	}

	if len(segs) >= 2 {
		switch segs[0] {
		case "shorts", "embed", "live":
			if Valid(segs[1]) {
				return segs[1], true
			}
		}
	}

	return "", false
}
