package normalization

import "regexp"

var youTubeRE = regexp.MustCompile(`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// YouTubeID extracts the 11 character video id from a watch, embed or short link.
func YouTubeID(link string) *string {
	m := youTubeRE.FindStringSubmatch(link)
	if len(m) < 2 {
		return nil
	}
	id := m[1]
	return &id
}
