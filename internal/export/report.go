package export

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/rick2x/fieldprofiler/domain/profile"
)

// Report builds the human-facing profiling report: one markdown section per
// field, shared statistics first, detailed groups following in record order.
type Report struct {
	Title   string
	Layer   string
	Records []*profile.Record
	// Precision overrides the per-run rendering precision; zero keeps two
	// decimal places.
	Precision int
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	precision := r.Precision
	if precision <= 0 {
		precision = 2
	}

	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Field Profile"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r.Layer != "" {
		fmt.Fprintf(&b, "Layer: **%s**\n\n", r.Layer)
	}
	fmt.Fprintf(&b, "Fields analyzed: %d\n\n", len(r.Records))

	for _, rec := range r.Records {
		fmt.Fprintf(&b, "## %s\n\n", rec.Field)
		fmt.Fprintf(&b, "Storage type `%s`, analyzed as `%s`", rec.Storage, rec.Working)
		if rec.Scoped {
			b.WriteString(" (selected records only)")
		}
		b.WriteString("\n\n")

		if hint := rec.Value(profile.KeyMismatchHint); hint != nil {
			fmt.Fprintf(&b, "> %v\n\n", hint)
		}

		b.WriteString("| Statistic | Value |\n|---|---|\n")
		for _, s := range rec.Stats() {
			if s.Key == profile.KeyMismatchHint {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s |\n", s.Key, escapeCell(DisplayStat(s, precision)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the report as a standalone HTML page.
func (r Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(r.Markdown()))
	renderer := html.NewRenderer(html.RendererOptions{
		Title: r.Title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

// escapeCell keeps statistic values from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
