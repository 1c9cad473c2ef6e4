package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"golang.org/x/term"
)

// OutputMode selects how results are printed.
type OutputMode string

// Output modes accepted by --output.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeCSV      OutputMode = "csv"
)

// ParseOutputMode validates an --output value. Empty means auto.
func ParseOutputMode(s string) (OutputMode, error) {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeCSV:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, text, markdown, json or csv)", s)
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	w     io.Writer
	mode  OutputMode
	isTTY bool
}

// NewRenderer creates a renderer. TTY detection applies when w is a terminal.
func NewRenderer(w io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms
	}
	return NewRendererWithTTY(w, mode, isTTY)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(w io.Writer, mode OutputMode, isTTY bool) *Renderer {
	return &Renderer{w: w, mode: mode, isTTY: isTTY}
}

// Writer returns the underlying writer.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Rows renders a result set. In JSON mode each row is an object, or an
// array when mode is FetchNum.
func (r *Renderer) Rows(cols []string, rows []core.Row, mode core.FetchMode) error {
	if r.EffectiveMode() == ModeJSON {
		out := make([]any, len(rows))
		for i, row := range rows {
			if mode == core.FetchNum {
				out[i] = rowValues(cols, row)
			} else {
				obj := make(map[string]any, len(cols))
				for j, c := range cols {
					obj[c], _ = row.At(j)
				}
				out[i] = obj
			}
		}
		return r.JSON(out)
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = rowValues(cols, row)
	}
	return r.Table(cols, values)
}

func rowValues(cols []string, row core.Row) []any {
	vals := make([]any, len(cols))
	for i := range cols {
		vals[i], _ = row.At(i)
	}
	return vals
}

// Table renders a grid with go-pretty.
func (r *Renderer) Table(cols []string, rows [][]any) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			obj := make(map[string]any, len(cols))
			for j, c := range cols {
				if j < len(row) {
					obj[c] = row[j]
				}
			}
			out[i] = obj
		}
		return r.JSON(out)
	}

	if len(rows) == 0 && mode != ModeCSV {
		_, _ = fmt.Fprintln(r.w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = formatValue(v)
		}
		t.AppendRow(tr)
	}

	switch mode {
	case ModeCSV:
		t.RenderCSV()
		return nil
	case ModeMarkdown:
		t.RenderMarkdown()
	default:
		t.Render()
	}
	_, _ = fmt.Fprintf(r.w, "(%d rows)\n", len(rows))
	return nil
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Message prints a status line, or a JSON object in JSON mode.
func (r *Renderer) Message(obj map[string]any, format string, args ...any) error {
	if r.EffectiveMode() == ModeJSON {
		return r.JSON(obj)
	}
	_, err := fmt.Fprintf(r.w, format+"\n", args...)
	return err
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
