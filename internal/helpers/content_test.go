package helpers

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "removes script blocks before tags",
			in:   `<html><script>var x = "<p>not text</p>";</script><p>hello</p></html>`,
			want: "hello",
		},
		{
			name: "removes style blocks",
			in:   `<style>p { color: red; }</style><p>body   text</p>`,
			want: "body text",
		},
		{
			name: "collapses whitespace across elements",
			in:   "<div>\n  <p>first</p>\n\t<p>second</p>\n</div>",
			want: "first second",
		},
		{
			name: "decodes common entities",
			in:   "<p>fish &amp; chips &lt;cheap&gt;</p>",
			want: "fish & chips <cheap>",
		},
		{
			name: "plain text passes through",
			in:   "already plain",
			want: "already plain",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := StripHTML(tt.in)
			if got != tt.want {
				t.Fatalf("StripHTML() got %q, want %q", got, tt.want)
			}
			if again := StripHTML(tt.in); again != got {
				t.Fatalf("StripHTML() not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "drops bracketed segment", in: "Go 1.24 released [video]", want: "Go 1.24 released"},
		{name: "drops parenthetical segment", in: "Breaking news (updated)", want: "Breaking news"},
		{name: "collapses leftover whitespace", in: "  A   [x]   B  ", want: "A B"},
		{name: "empty stays empty", in: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.in); got != tt.want {
				t.Fatalf("CleanTitle(%q) got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	if got := Summarize(""); got != NoSummary {
		t.Fatalf("empty text: got %q, want sentinel", got)
	}
	if got := Summarize("   \n\t "); got != NoSummary {
		t.Fatalf("whitespace-only text: got %q, want sentinel", got)
	}

	short := "a concise description"
	if got := Summarize(short); got != short {
		t.Fatalf("short text should pass through, got %q", got)
	}
	if strings.HasSuffix(Summarize(short), "...") {
		t.Fatal("no ellipsis expected when nothing was truncated")
	}

	long := strings.Repeat("x", MaxSummaryChars+50)
	got := Summarize(long)
	if len(got) != MaxSummaryChars+3 {
		t.Fatalf("truncated length = %d, want %d", len(got), MaxSummaryChars+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatal("expected ellipsis marker after truncation")
	}

	exact := strings.Repeat("y", MaxSummaryChars)
	if got := Summarize(exact); got != exact {
		t.Fatalf("text at the cap must not gain an ellipsis, got len %d", len(got))
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Fatalf("short input changed: %q", got)
	}
	if got := Truncate("ab", 0); got != "ab" {
		t.Fatalf("zero cap changed input: %q", got)
	}
}

func TestMetaExtraction(t *testing.T) {
	t.Parallel()
	html := `<html><head>
		<title> Example   Story (live) </title>
		<meta name="description" content="A short description.">
		<meta property="og:image" content="https://example.com/img.png">
	</head><body><p>text</p></body></html>`

	if got := PageTitle(html); got != "Example Story" {
		t.Fatalf("PageTitle() got %q", got)
	}
	if got := MetaDescription(html); got != "A short description." {
		t.Fatalf("MetaDescription() got %q", got)
	}
	if got := OGImage(html); got != "https://example.com/img.png" {
		t.Fatalf("OGImage() got %q", got)
	}

	if got := PageTitle("<body>no head</body>"); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
	if got := MetaDescription("<body/>"); got != "" {
		t.Fatalf("expected empty description, got %q", got)
	}
	if got := OGImage("<body/>"); got != "" {
		t.Fatalf("expected empty image, got %q", got)
	}
}
