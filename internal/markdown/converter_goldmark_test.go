package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestConvertBasicMarkup(t *testing.T) {
	converter := NewGoldmarkConverter(interfaces.ConvertOptions{})

	html, err := converter.Convert([]byte("# Title\n\nSome *emphasis* here."))
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Title") {
		t.Fatalf("expected heading, got %q", out)
	}
	if !strings.Contains(out, "<em>emphasis</em>") {
		t.Fatalf("expected emphasis, got %q", out)
	}
}

func TestConvertInlineLink(t *testing.T) {
	converter := NewGoldmarkConverter(interfaces.ConvertOptions{})

	html, err := converter.Convert([]byte(`[Example](http://example.com "Example")`))
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, `href="http://example.com"`) {
		t.Fatalf("expected link href, got %q", out)
	}
	if !strings.Contains(out, `title="Example"`) {
		t.Fatalf("expected link title, got %q", out)
	}
}

func TestConvertDefaultExtensionsIncludeTables(t *testing.T) {
	converter := NewGoldmarkConverter(interfaces.ConvertOptions{})
	source := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	html, err := converter.Convert([]byte(source))
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("expected table markup, got %q", html)
	}
}

func TestConvertRawHTMLModes(t *testing.T) {
	source := []byte("<div>raw</div>")

	unsafe := NewGoldmarkConverter(interfaces.ConvertOptions{})
	html, err := unsafe.Convert(source)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(string(html), "<div>raw</div>") {
		t.Fatalf("expected raw HTML to pass through by default, got %q", html)
	}

	safe := NewGoldmarkConverter(interfaces.ConvertOptions{SafeMode: true})
	html, err = safe.Convert(source)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if strings.Contains(string(html), "<div>raw</div>") {
		t.Fatalf("expected raw HTML suppressed in safe mode, got %q", html)
	}
}

func TestConvertHardWraps(t *testing.T) {
	converter := NewGoldmarkConverter(interfaces.ConvertOptions{})
	source := []byte("line one\nline two")

	html, err := converter.ConvertWithOptions(source, interfaces.ConvertOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(string(html), "<br") {
		t.Fatalf("expected hard break, got %q", html)
	}
}

func TestConvertPreservesPlaceholders(t *testing.T) {
	converter := NewGoldmarkConverter(interfaces.ConvertOptions{})

	html, err := converter.Convert([]byte("Intro.\n\n@@press-code-0@@\n\nOutro."))
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(string(html), "@@press-code-0@@") {
		t.Fatalf("expected placeholder to survive conversion, got %q", html)
	}
}

func TestPassthroughHighlighter(t *testing.T) {
	highlighter := NewPassthroughHighlighter()

	out, err := highlighter.Highlight("go", "a < b && c > d")
	if err != nil {
		t.Fatalf("highlight failed: %v", err)
	}
	if !strings.Contains(out, `class="language-go"`) {
		t.Fatalf("expected language class, got %q", out)
	}
	if !strings.Contains(out, "a &lt; b &amp;&amp; c &gt; d") {
		t.Fatalf("expected escaped code text, got %q", out)
	}
}

func TestPassthroughHighlighterWithoutLanguage(t *testing.T) {
	highlighter := NewPassthroughHighlighter()

	out, err := highlighter.Highlight("", "plain")
	if err != nil {
		t.Fatalf("highlight failed: %v", err)
	}
	if strings.Contains(out, "language-") {
		t.Fatalf("expected no language class, got %q", out)
	}
	if !strings.Contains(out, "<pre><code>") {
		t.Fatalf("expected bare code wrapper, got %q", out)
	}
}
