package config

import "testing"

func TestResolveFeedURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"preset name", "aj", "https://www.aljazeera.com/xml/rss/all.xml"},
		{"another preset", "hn", "https://hnrss.org/newest"},
		{"direct url passthrough", "https://example.com/feed.xml", "https://example.com/feed.xml"},
		{"unknown name passthrough", "notapreset", "notapreset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFeedURL(tt.input); got != tt.want {
				t.Errorf("ResolveFeedURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.TopK != DefaultTopK {
		t.Errorf("TopK = %d, want %d", cfg.TopK, DefaultTopK)
	}
	if cfg.SessionTTL != DefaultSessionTTL {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, DefaultSessionTTL)
	}
	if cfg.GenerationTimeout != DefaultGenerationTimeout {
		t.Errorf("GenerationTimeout = %v, want %v", cfg.GenerationTimeout, DefaultGenerationTimeout)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected default sources when NEWS_SOURCES is unset")
	}
}
