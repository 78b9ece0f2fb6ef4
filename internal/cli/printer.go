package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gwconsole/internal/engine/pages"
	"gwconsole/internal/platform/session"
)

// Palette holds the ANSI 256-color codes for one theme.
type Palette struct {
	Text    lipgloss.Color
	Faint   lipgloss.Color
	Header  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Accent  lipgloss.Color
}

var (
	LightPalette = Palette{
		Text:    lipgloss.Color("236"),
		Faint:   lipgloss.Color("245"),
		Header:  lipgloss.Color("25"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("130"),
		Error:   lipgloss.Color("124"),
		Accent:  lipgloss.Color("55"),
	}
	DarkPalette = Palette{
		Text:    lipgloss.Color("252"),
		Faint:   lipgloss.Color("242"),
		Header:  lipgloss.Color("75"),
		Success: lipgloss.Color("114"),
		Warning: lipgloss.Color("221"),
		Error:   lipgloss.Color("203"),
		Accent:  lipgloss.Color("141"),
	}
)

func PaletteFor(theme session.Theme) Palette {
	if theme == session.ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

const columnGap = "  "

// Printer renders views as aligned tables. Colors are dropped when out is
// not a terminal.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	palette  Palette
}

func NewPrinter(out io.Writer, theme session.Theme) *Printer {
	return &Printer{out: out, renderer: lipgloss.NewRenderer(out), palette: PaletteFor(theme)}
}

func (p *Printer) SetTheme(theme session.Theme) {
	p.palette = PaletteFor(theme)
}

func (p *Printer) style(color lipgloss.Color) lipgloss.Style {
	return p.renderer.NewStyle().Foreground(color)
}

// statusColor colors the values the console shows in status columns.
func (p *Printer) statusColor(value string) lipgloss.Color {
	switch value {
	case "active", "approved", string(pages.VariantSuccess):
		return p.palette.Success
	case "pending":
		return p.palette.Warning
	case "revoked", "disabled", string(pages.VariantError):
		return p.palette.Error
	case pages.Placeholder, pages.Unlimited, pages.Infinity:
		return p.palette.Faint
	default:
		return p.palette.Text
	}
}

// Table prints headers and rows with columns padded to their widest cell.
// Columns whose header is STATUS or VARIANT are colored by value.
func (p *Printer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := p.style(p.palette.Header).Bold(true)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = header.Width(widths[i]).Render(h)
	}
	p.line(cells)

	for _, row := range rows {
		cells = cells[:0]
		for i := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			color := p.palette.Text
			if headers[i] == "STATUS" || headers[i] == "VARIANT" || value == pages.Placeholder {
				color = p.statusColor(value)
			}
			cells = append(cells, p.style(color).Width(widths[i]).Render(value))
		}
		p.line(cells)
	}

	if len(rows) == 0 {
		fmt.Fprintln(p.out, p.style(p.palette.Faint).Render("(none)"))
	}
}

func (p *Printer) line(cells []string) {
	fmt.Fprintln(p.out, strings.TrimRight(strings.Join(cells, columnGap), " "))
}

// Fields prints label/value pairs, labels aligned.
func (p *Printer) Fields(pairs [][2]string) {
	width := 0
	for _, pair := range pairs {
		if w := lipgloss.Width(pair[0]); w > width {
			width = w
		}
	}
	label := p.style(p.palette.Faint).Width(width + 1)
	for _, pair := range pairs {
		fmt.Fprintln(p.out, label.Render(pair[0]+":")+" "+p.style(p.palette.Text).Render(pair[1]))
	}
}

// Notice prints the success message of a view. Errors are returned to the
// caller instead and printed once by Error.
func (p *Printer) Notice(n pages.Notice) {
	if n.Message != "" {
		fmt.Fprintln(p.out, p.style(p.palette.Success).Render(n.Message))
	}
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, p.style(p.palette.Error).Bold(true).Render("error:")+" "+err.Error())
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Secret prints a freshly issued key. It is the only time it is shown.
func (p *Printer) Secret(s *pages.SecretView) {
	if s == nil {
		return
	}
	fmt.Fprintln(p.out, p.style(p.palette.Warning).Render("Copy this key now. It will not be shown again."))
	fmt.Fprintln(p.out, p.style(p.palette.Accent).Bold(true).Render(s.PlaintextKey))
}

// Body prints a titled request or response body, or a placeholder when empty.
func (p *Printer) Body(title, body string) {
	fmt.Fprintln(p.out, p.style(p.palette.Header).Bold(true).Render(title))
	if body == "" {
		body = pages.Placeholder
	}
	fmt.Fprintln(p.out, p.style(p.palette.Text).Render(body))
}

func (p *Printer) Pager(pager pages.Pager) {
	fmt.Fprintln(p.out, p.style(p.palette.Faint).Render(pager.Label))
}
