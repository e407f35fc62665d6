// Package report renders a bootstrap summary as a markdown document and,
// for the HTTP surface, converts it to HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"graphboot/domain/boot"
)

// Markdown renders the run header and the summary table as markdown.
func Markdown(result *boot.BootstrapResult, table boot.SummaryTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Bootstrap summary\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", result.RunID)
	fmt.Fprintf(&b, "- Measure: `%s`", result.Measure)
	if result.Measure.Weighted() {
		fmt.Fprintf(&b, " (transform `%s`)", result.Transform)
	}
	b.WriteString("\n")
	var gb *boot.GroupBootstrap
	for _, gid := range result.Groups {
		gb = result.PerGroup[gid]
		break
	}
	if gb != nil {
		fmt.Fprintf(&b, "- Replicates: %d\n", gb.Replicates())
	}
	fmt.Fprintf(&b, "- Confidence: %g\n", result.Confidence)
	fmt.Fprintf(&b, "- Seed: %d\n\n", result.Seed)

	b.WriteString("| Group | Density | Observed | Std. error | CI low | CI high |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range table {
		fmt.Fprintf(&b, "| %s | %.3f | %.5f | %.5f | %.5f | %.5f |\n",
			row.Group, row.Density, row.Observed, row.StdError, row.CILow, row.CIHigh)
	}
	return b.String()
}

// HTML converts the markdown report to a standalone HTML fragment.
func HTML(result *boot.BootstrapResult, table boot.SummaryTable) []byte {
	md := Markdown(result, table)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
