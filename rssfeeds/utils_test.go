package rssfeeds

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "just text", "just text"},
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"whitespace collapse", "  a \n\n b  ", "a b"},
		{"empty", "   ", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StripHTML(c.input); got != c.want {
				t.Fatalf("StripHTML(%q) = %q; want %q", c.input, got, c.want)
			}
		})
	}
}
