package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/wildcard"
	"gopkg.in/yaml.v3"
)

// Renderer writes views in one format
type Renderer struct {
	format Format
	w      io.Writer
	styles *Styles
}

// NewRenderer creates a renderer for format. Auto is resolved against w when
// it is a file, and falls back to term otherwise.
func NewRenderer(format Format, w io.Writer) (*Renderer, error) {
	if format == FormatAuto {
		format = FormatTerminal
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	r := &Renderer{format: format, w: w}
	switch format {
	case FormatTerminal:
		styles, err := NewStyles(w)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to load styles")
		}
		r.styles = styles
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
	return r, nil
}

// Format returns the resolved format
func (r *Renderer) Format() Format {
	return r.format
}

// Jobs renders resolved jobs
func (r *Renderer) Jobs(views []JobView) error {
	if r.structured() {
		return r.encode(views)
	}

	var b strings.Builder
	for i, v := range views {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.style("Title", jobTitle(v)) + "\n")
		rows := [][]string{
			{r.style("Label", "rule"), orDash(v.Rule)},
			{r.style("Label", "bindings"), r.bindings(v.Bindings)},
			{r.style("Label", "output"), inline(v.Output, false)},
			{r.style("Label", "input"), inline(v.Input, false)},
			{r.style("Label", "require"), inline(v.Require, false)},
		}
		b.WriteString(columns("  ", rows))
	}
	return r.write(b.String())
}

// Rules renders the rule table
func (r *Renderer) Rules(views []RuleView) error {
	if r.structured() {
		return r.encode(views)
	}

	header := []string{"#", "NAME", "OUTPUT", "WILDCARDS", "FLAGS"}
	for i := range header {
		header[i] = r.style("Header", header[i])
	}
	rows := [][]string{header}
	for _, v := range views {
		var flags []string
		if v.Default {
			flags = append(flags, r.style("Default", "default"))
		}
		if v.Body {
			flags = append(flags, "body")
		}
		wildcards := make([]string, len(v.Wildcards))
		for i, name := range v.Wildcards {
			wildcards[i] = r.style("Wildcard", name)
		}
		rows = append(rows, []string{
			fmt.Sprint(v.Index),
			orDash(v.Name),
			inline(v.Output, false),
			orDash(strings.Join(wildcards, ",")),
			orDash(strings.Join(flags, ",")),
		})
	}
	return r.write(columns("", rows))
}

// Matches renders match outcomes grouped by consecutive template
func (r *Renderer) Matches(views []MatchView) error {
	if r.structured() {
		return r.encode(views)
	}

	var b strings.Builder
	var rows [][]string
	flush := func() {
		b.WriteString(columns("  ", rows))
		rows = nil
	}
	for i, v := range views {
		if i == 0 || views[i-1].Template != v.Template {
			flush()
			b.WriteString(r.style("Title", v.Template) + "\n")
		}
		result := r.style("NoMatch", "no match")
		if v.Matched {
			result = orDash(r.bindings(v.Bindings))
		}
		rows = append(rows, []string{v.Candidate, result})
	}
	flush()
	return r.write(b.String())
}

// Error renders err. Coded errors carry their code in structured formats.
func (r *Renderer) Error(err error) error {
	if r.structured() {
		return r.encode(struct {
			Error string `json:"error" yaml:"error"`
			Code  string `json:"code" yaml:"code"`
		}{err.Error(), string(errors.GetErrorCode(err))})
	}
	return r.write(r.style("Error", "error:") + " " + err.Error() + "\n")
}

// Message renders a plain message
func (r *Renderer) Message(msg string) error {
	if r.structured() {
		return r.encode(map[string]string{"message": msg})
	}
	return r.write(msg + "\n")
}

func (r *Renderer) structured() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

func (r *Renderer) encode(v any) error {
	if r.format == FormatYAML {
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}

func (r *Renderer) style(name, text string) string {
	if r.styles == nil {
		return text
	}
	return r.styles.Render(name, text)
}

func (r *Renderer) bindings(b wildcard.Bindings) string {
	parts := make([]string, 0, len(b))
	for _, name := range b.Names() {
		parts = append(parts, r.style("Wildcard", name)+"="+b[name])
	}
	return orDash(strings.Join(parts, " "))
}

func jobTitle(v JobView) string {
	if v.Name != "" {
		return v.Name
	}
	if outputs := pathtree.Flatten(v.Output); len(outputs) > 0 {
		return strings.Join(outputs, " ")
	}
	return "(unnamed job)"
}

// inline prints a tree on one line: sequences space separated, mappings as
// key=value pairs, nested containers bracketed
func inline(n pathtree.Node[string], nested bool) string {
	switch node := n.(type) {
	case nil:
		return "-"
	case pathtree.Leaf[string]:
		return node.Value
	case pathtree.Sequence[string]:
		parts := make([]string, len(node))
		for i, child := range node {
			parts[i] = inline(child, true)
		}
		if nested || len(parts) == 0 {
			return "[" + strings.Join(parts, " ") + "]"
		}
		return strings.Join(parts, " ")
	case pathtree.Mapping[string]:
		parts := make([]string, len(node))
		for i, e := range node {
			parts[i] = e.Key + "=" + inline(e.Value, true)
		}
		if nested || len(parts) == 0 {
			return "{" + strings.Join(parts, " ") + "}"
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(n)
	}
}

// columns aligns rows on display width, two spaces between columns. The last
// column is not padded.
func columns(indent string, rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(indent)
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
