package youtube

import (
	"fmt"
	"net/url"
	"regexp"
)

var idRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/embed/|youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
}

var idOnly = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID pulls the canonical 11-character video id out of the common
// YouTube URL shapes (watch, embed, shorts, youtu.be). Returns "" when the
// URL carries no recognizable id.
func ExtractID(rawURL string) string {
	for _, r := range idRegexes {
		if m := r.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if v := u.Query().Get("v"); v != "" && idOnly.MatchString(v) {
			return v
		}
	}
	return ""
}

// ThumbURL builds the static thumbnail URL for a video id. Quality is the
// ytimg prefix, e.g. "hq" or "mq".
func ThumbURL(id, quality string) string {
	if quality == "" {
		quality = "hq"
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/%sdefault.jpg", id, quality)
}
