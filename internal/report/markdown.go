package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jsrecon/jsrecon/internal/model"
)

// MarkdownWriter outputs reports as GitHub-flavored Markdown, one
// table per category.
//
// Design decision: the nao1215/markdown library gives type-safe tables
// and headings instead of hand-rolled string concatenation.
type MarkdownWriter struct {
	baseWriter
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titleCaser: cases.Title(language.English),
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	for _, cat := range orderedCategories(result) {
		w.writeCategory(md, result, cat)
	}
	w.writeMissingPackages(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the scan metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult) {
	md.H1("jsrecon Report")
	md.PlainText("")

	status := "✅ Complete"
	if result.ErrorMessage != "" {
		status = "❌ Error - " + result.ErrorMessage
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + result.Target + "`"},
			{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Total Findings", strconv.Itoa(result.TotalFindings())},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeCategory writes one category's findings table.
func (w *MarkdownWriter) writeCategory(md *markdown.Markdown, result *model.ScanResult, cat model.Category) {
	findings := result.Results[cat]

	md.H2(string(cat))
	md.PlainText("")

	rows := make([][]string, 0, len(findings))
	for _, value := range sortedValues(findings) {
		occs := findings[value]
		first := occs[0]
		rows = append(rows, []string{
			"`" + escapePipes(value) + "`",
			strconv.Itoa(len(occs)),
			w.ruleTitle(first.RuleID),
			fmt.Sprintf("%s:%d:%d", first.Source, first.Line, first.Column),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Value", "Occurrences", "Rule", "First Location"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMissingPackages writes the dependency-confusion section when the
// registry probe flagged anything.
func (w *MarkdownWriter) writeMissingPackages(md *markdown.Markdown, result *model.ScanResult) {
	if len(result.MissingPackages) == 0 {
		return
	}

	md.H2("Packages Missing From the Public Registry")
	md.PlainText("These package names were referenced but do not resolve on registry.npmjs.org. " +
		"If the application installs them from a private registry, they may be claimable by an attacker.")
	md.PlainText("")
	items := make([]string, 0, len(result.MissingPackages))
	for _, pkg := range result.MissingPackages {
		items = append(items, "`"+pkg+"`")
	}
	md.BulletList(items...)
	md.PlainText("")
}

// ruleTitle renders a rule ID for display: "aws_access_key" becomes
// "Aws Access Key".
func (w *MarkdownWriter) ruleTitle(ruleID string) string {
	return w.titleCaser.String(strings.ReplaceAll(ruleID, "_", " "))
}

// escapePipes keeps finding values from breaking table cells.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
