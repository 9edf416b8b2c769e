package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/dqprofile/internal/enrichment"
)

// Printer renders reports as aligned, optionally colored text.
type Printer struct {
	w        io.Writer
	colored  bool
	maxWidth int
}

// NewPrinter creates a Printer writing to w. Column names wider than
// maxWidth cells are truncated; zero disables truncation.
func NewPrinter(w io.Writer, colored bool, maxWidth int) *Printer {
	return &Printer{w: w, colored: colored, maxWidth: maxWidth}
}

var severityStyles = map[Severity]color.Style{
	SeverityLow:      color.New(color.FgCyan),
	SeverityMedium:   color.New(color.FgYellow),
	SeverityHigh:     color.New(color.FgRed),
	SeverityCritical: color.New(color.FgRed, color.OpBold),
}

func (p *Printer) style(s color.Style, text string) string {
	if !p.colored {
		return text
	}
	return s.Sprint(text)
}

func (p *Printer) heading(text string) string {
	return p.style(color.New(color.OpBold), text)
}

func (p *Printer) severity(sev Severity) string {
	s, ok := severityStyles[sev]
	if !ok {
		return string(sev)
	}
	return p.style(s, string(sev))
}

// cell truncates text to the printer width and pads it to width cells.
func (p *Printer) cell(text string, width int) string {
	if p.maxWidth > 0 && runewidth.StringWidth(text) > p.maxWidth {
		text = runewidth.Truncate(text, p.maxWidth, "…")
	}
	return runewidth.FillRight(text, width)
}

// nameWidth returns the display width of the widest name, capped at maxWidth.
func (p *Printer) nameWidth(names []string, header string) int {
	width := runewidth.StringWidth(header)
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > width {
			width = w
		}
	}
	if p.maxWidth > 0 && width > p.maxWidth {
		width = p.maxWidth
	}
	return width
}

// PrintProfile writes a profile report.
func (p *Printer) PrintProfile(r *ProfileReport) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.heading(fmt.Sprintf("Data Quality Profile: %s", r.Name)))
	fmt.Fprintln(p.w, strings.Repeat("=", 60))
	fmt.Fprintf(p.w, "  Token:              %s\n", r.Token)
	fmt.Fprintf(p.w, "  Records:            %d\n", r.TotalRecords)
	fmt.Fprintf(p.w, "  Fields:             %d\n", r.TotalFields)
	fmt.Fprintf(p.w, "  Fields with issues: %d\n", r.FieldsWithIssues)
	fmt.Fprintf(p.w, "  Date formats:       %d\n", r.DateFormatCount)
	fmt.Fprintln(p.w)

	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.ColumnName
	}
	width := p.nameWidth(names, "Field")

	fmt.Fprintf(p.w, "  %s  %-8s  %7s  %7s  %s\n",
		p.cell("Field", width), "Type", "Filled", "Formats", "Warnings")
	fmt.Fprintf(p.w, "  %s\n", strings.Repeat("-", width+36))
	for _, f := range r.Fields {
		pct := roundPercent(f.PopulatedCount, r.TotalRecords)
		fmt.Fprintf(p.w, "  %s  %-8s  %6d%%  %7d  %d\n",
			p.cell(f.ColumnName, width), f.InferredType, pct, f.FormatCount, len(f.Warnings))
	}

	if r.WarningCount() > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.heading("Warnings"))
		for _, f := range r.Fields {
			for _, w := range f.Warnings {
				fmt.Fprintf(p.w, "  [%s] %s: %s (%s)\n", p.severity(w.Severity), f.ColumnName, w.Message, w.Type)
			}
		}
	}

	if len(r.GlobalIssues) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.heading("Global Issues"))
		for _, issue := range r.GlobalIssues {
			fmt.Fprintf(p.w, "  [%s] %s: %s\n", p.severity(issue.Severity), issue.Title, issue.Description)
		}
	}
	fmt.Fprintln(p.w)
}

// PrintEnrichment writes an enrichment report.
func (p *Printer) PrintEnrichment(r *enrichment.Report) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.heading("Enrichment Report"))
	fmt.Fprintln(p.w, strings.Repeat("=", 60))
	fmt.Fprintf(p.w, "  Total rows:                 %d\n", r.TotalRows)
	fmt.Fprintf(p.w, "  Source columns:             %d\n", r.TotalSourceColumns)
	fmt.Fprintf(p.w, "  Destination columns:        %d\n", r.TotalDestinationColumns)
	fmt.Fprintf(p.w, "  New columns:                %d\n", r.Global.NewColumnsCount)
	fmt.Fprintf(p.w, "  Many-to-one mappings:       %d\n", r.Global.ManyToOneCount)
	fmt.Fprintf(p.w, "  Columns reduced by merging: %d\n", r.Global.ColumnsReducedByMerging)
	fmt.Fprintf(p.w, "  Records modified:           %d (%.1f%%)\n", r.Global.RecordsModifiedCount, r.ModificationRate())
	fmt.Fprintln(p.w)

	names := make([]string, len(r.Mappings))
	for i, m := range r.Mappings {
		names[i] = m.Mapping.SourceColumn + " → " + m.Mapping.DestinationColumn
	}
	width := p.nameWidth(names, "Mapping")

	fmt.Fprintf(p.w, "  %s  %5s  %5s  %5s  %9s  %5s  %7s  %7s\n",
		p.cell("Mapping", width), "Good", "Fixed", "Added", "Discarded", "Empty", "Before", "After")
	fmt.Fprintf(p.w, "  %s\n", strings.Repeat("-", width+60))

	for i, m := range r.Mappings {
		label := p.cell(names[i], width)
		switch {
		case m.Err != nil:
			fmt.Fprintf(p.w, "  %s  %s\n", label, p.style(color.New(color.FgRed), "error: "+m.Err.Error()))
		case m.Stats == nil || !m.Stats.Applicable:
			fmt.Fprintf(p.w, "  %s  %s\n", label, p.style(color.New(color.FgGray), "not applicable"))
		default:
			s := m.Stats
			after := fmt.Sprintf("%6.1f%%", s.CorrectPercentageAfter)
			if s.CorrectPercentageAfter > s.CorrectPercentageBefore {
				after = p.style(color.New(color.FgGreen), after)
			}
			fmt.Fprintf(p.w, "  %s  %5d  %5d  %5d  %9d  %5d  %6.1f%%  %s\n",
				label, s.Good, s.Fixed, s.Added, s.Discarded, s.BothEmpty, s.CorrectPercentageBefore, after)
		}
	}
	fmt.Fprintln(p.w)
}
