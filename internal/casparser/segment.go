package casparser

import (
	"strings"

	"casfolio/cas-import/internal/models"
)

// segmentedSection pairs a section with the template whose header pattern
// opened it, so extraction applies the right column vocabulary per section.
type segmentedSection struct {
	section  models.Section
	template *Template
}

// segmentRows partitions the document's ordered row stream into per-holding
// sections. A header row strictly opens a new section and closes the
// previous one; rows before the first header are statement front-matter and
// are discarded. A section left with zero transaction rows is retained — a
// holding with no activity in the period is valid, not an error.
func segmentRows(rows []models.Row, templates []Template) []segmentedSection {
	var sections []segmentedSection
	var current *segmentedSection

	for _, row := range rows {
		text := row.Text()
		if text == "" {
			continue
		}

		if match, tmpl, ok := matchAnyHeader(text, templates); ok {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &segmentedSection{
				section: models.Section{
					Name:   match.Name,
					Symbol: strings.ToUpper(match.Symbol),
					ISIN:   match.ISIN,
					Page:   row.Page,
				},
				template: tmpl,
			}
			continue
		}

		if current == nil {
			// Front matter: account info, statement metadata.
			continue
		}
		current.section.Rows = append(current.section.Rows, row)
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// matchAnyHeader tries the templates in order and returns the first header
// match. Template order therefore expresses preference when patterns
// overlap.
func matchAnyHeader(text string, templates []Template) (HeaderMatch, *Template, bool) {
	for i := range templates {
		if match, ok := templates[i].MatchHeader(text); ok {
			return match, &templates[i], true
		}
	}
	return HeaderMatch{}, nil, false
}
