package normalization

import "testing"

func TestYouTubeID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=sjkrrmBnpGE&t=11s": "sjkrrmBnpGE",
		"https://youtu.be/8ZrWV9VETMw?si=ebEPTWWviaHQ4VYV":  "8ZrWV9VETMw",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":         "dQw4w9WgXcQ",
	}
	for link, want := range cases {
		got := YouTubeID(link)
		if got == nil || *got != want {
			t.Fatalf("YouTubeID(%q) = %v, want %s", link, got, want)
		}
	}
	if YouTubeID("https://vimeo.com/12345") != nil {
		t.Fatalf("expected nil for non-youtube link")
	}
}

func TestStreamStatus(t *testing.T) {
	if s, err := StreamStatus(" LIVE "); err != nil || s != StreamLive {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := StreamStatus("paused"); err == nil {
		t.Fatalf("expected invalid choice")
	}
}
