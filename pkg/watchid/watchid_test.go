package watchid

import "testing"

func TestFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts path", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed path", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"live path", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"channel url has no video id", "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", "", false},
		{"malformed id in v param", "https://www.youtube.com/watch?v=short", "", false},
		{"empty string", "", "", false},
		{"not a url", "just some text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromURL(tt.url)
			if ok != tt.wantOK || got != tt.wantID {
				t.Errorf("FromURL(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"a_b-c_d-e_f", true},
		{"tooshort", false},
		{"waytoolongvideoid", false},
		{"has space!!", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.id); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
