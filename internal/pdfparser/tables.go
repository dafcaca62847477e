package pdfparser

import (
	"slices"
	"strings"

	"nephila/thesaurus/internal/models"

	"github.com/ledongthuc/pdf"
)

// DefaultCellGap is the horizontal gap, in points, that separates two cells.
const DefaultCellGap = 12.0

type segment struct {
	x    float64
	end  float64
	text string
}

// ReconstructTables rebuilds ruled tables from positioned text rows.
//
// A table starts at a row with at least two cells; that row fixes the column
// anchors. Following rows are assigned to columns by x position. A row with a
// single cell in a later column continues the previous row's cell; a single
// cell in the first column ends the table. Blocks shorter than two rows are
// not tables.
func ReconstructTables(rows pdf.Rows, gap float64) []models.Table {
	if gap <= 0 {
		gap = DefaultCellGap
	}

	var (
		tables  []models.Table
		current models.Table
		anchors []float64
	)
	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current, anchors = nil, nil
	}

	for _, row := range rows {
		segs := rowSegments(row, gap)
		if len(segs) == 0 {
			continue
		}

		if current == nil {
			if len(segs) >= 2 {
				anchors = make([]float64, len(segs))
				header := make([]string, len(segs))
				for i, s := range segs {
					anchors[i] = s.x
					header[i] = s.text
				}
				current = models.Table{header}
			}
			continue
		}

		if len(segs) == 1 {
			col := column(anchors, segs[0].x, gap)
			if col == 0 {
				flush()
				continue
			}
			last := current[len(current)-1]
			last[col] = joinCell(last[col], segs[0].text)
			continue
		}

		cells := make([]string, len(anchors))
		for _, s := range segs {
			col := column(anchors, s.x, gap)
			cells[col] = joinCell(cells[col], s.text)
		}
		current = append(current, cells)
	}
	flush()
	return tables
}

// rowSegments merges the glyph runs of a row into cells. Runs closer than
// gap belong to the same cell; a small gap inside a cell becomes a space.
func rowSegments(row *pdf.Row, gap float64) []segment {
	if row == nil || len(row.Content) == 0 {
		return nil
	}
	texts := slices.Clone([]pdf.Text(row.Content))
	slices.SortStableFunc(texts, func(a, b pdf.Text) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		default:
			return 0
		}
	})

	var segs []segment
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if n := len(segs); n > 0 && t.X-segs[n-1].end <= gap {
			last := &segs[n-1]
			if t.X-last.end > wordGap(t) && !strings.HasSuffix(last.text, " ") {
				last.text += " "
			}
			last.text += t.S
			last.end = max(last.end, t.X+t.W)
			continue
		}
		segs = append(segs, segment{x: t.X, end: t.X + t.W, text: t.S})
	}

	out := segs[:0]
	for _, s := range segs {
		s.text = strings.TrimSpace(s.text)
		if s.text != "" {
			out = append(out, s)
		}
	}
	return out
}

func wordGap(t pdf.Text) float64 {
	return max(1.0, t.FontSize*0.2)
}

// column returns the last anchor at or left of x, allowing gap of slack.
func column(anchors []float64, x, gap float64) int {
	col := 0
	for i, a := range anchors {
		if a <= x+gap {
			col = i
		}
	}
	return col
}

func joinCell(cell, text string) string {
	if cell == "" {
		return text
	}
	return cell + " " + text
}
