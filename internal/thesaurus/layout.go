package thesaurus

import (
	"fmt"
	"strings"

	"nephila/thesaurus/internal/models"
)

// Layout selects which interaction strategy applies to a release.
type Layout string

const (
	// LayoutAuto probes the first pages for interaction tables.
	LayoutAuto Layout = "auto"
	// LayoutText runs the line state machine.
	LayoutText Layout = "text"
	// LayoutTable reads ruled interaction tables.
	LayoutTable Layout = "table"
)

// DefaultProbePages is how many leading pages DetectLayout looks at.
const DefaultProbePages = 5

// ParseLayout parses a layout name as found in configuration or flags.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutAuto, nil
	case LayoutAuto, LayoutText, LayoutTable:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want auto, text or table)", s)
	}
}

// DetectLayout reports LayoutTable when any page carries a table whose
// header identifies the substance and constraint columns, LayoutText
// otherwise.
func (r *Rules) DetectLayout(pages []models.Page) Layout {
	for _, p := range pages {
		for _, t := range p.Tables {
			if len(t) < 2 {
				continue
			}
			if _, ok := r.mapColumns(t[0]); ok {
				return LayoutTable
			}
		}
	}
	return LayoutText
}
