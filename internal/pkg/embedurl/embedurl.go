// Package embedurl turns share links for agent videos into URLs that can be iframed.
package embedurl

import (
	"net/url"
	"strings"
)

// Resolve maps a YouTube, Google Drive or Loom link to its embed form.
// Unrecognised hosts and links it cannot take apart come back unchanged with ok=true.
// ok is false only when raw is not an absolute URL.
func Resolve(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	segs := pathSegments(u.Path)

	switch host {
	case "youtube.com", "www.youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id, true
		}
		if len(segs) >= 2 && segs[0] == "embed" {
			return "https://www.youtube.com/embed/" + segs[1], true
		}
		return raw, true
	case "youtu.be":
		if len(segs) > 0 {
			return "https://www.youtube.com/embed/" + segs[len(segs)-1], true
		}
		return raw, true
	case "drive.google.com":
		if len(segs) >= 3 && segs[0] == "file" && segs[1] == "d" {
			return "https://drive.google.com/file/d/" + segs[2] + "/preview", true
		}
		return raw, true
	case "loom.com", "www.loom.com":
		if len(segs) >= 2 && (segs[0] == "share" || segs[0] == "embed") {
			return "https://www.loom.com/embed/" + segs[1], true
		}
		return raw, true
	default:
		return raw, true
	}
}

func pathSegments(p string) []string {
	out := make([]string, 0, 4)
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
