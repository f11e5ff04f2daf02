package normalize

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

// EnsureRowIDs assigns a fresh UUID to every row that is missing an id.
// Rows that already carry a non-empty id are passed through unchanged.
func EnsureRowIDs(rows []dtos.ResourceRow) []dtos.ResourceRow {
	out := make([]dtos.ResourceRow, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		out[i] = row
	}
	return out
}

// CleanResourceRows drops empty rows and maps the survivors to their
// canonical shape. A row is retained iff it has a non-blank description
// or any of prev/today/accumulated greater than zero. This must run
// immediately before every remote save, submit and export so half-empty
// UI rows never reach persistence.
func CleanResourceRows(rows []dtos.ResourceRow) []dtos.ResourceRow {
	out := make([]dtos.ResourceRow, 0, len(rows))
	for _, row := range rows {
		desc := strings.TrimSpace(row.Description)
		if desc == "" && row.Prev <= 0 && row.Today <= 0 && row.Accumulated <= 0 {
			continue
		}
		clean := dtos.ResourceRow{
			ID:          row.ID,
			Description: desc,
			Unit:        row.Unit,
			Prev:        positiveOrZero(row.Prev),
			Today:       positiveOrZero(row.Today),
			Accumulated: row.Accumulated,
		}
		// Older drafts sometimes stored quantities without a running
		// total. Recompute only when it is absent, never overwrite a
		// stored value.
		if clean.Accumulated == 0 && (clean.Prev > 0 || clean.Today > 0) {
			clean.Accumulated = clean.Prev + clean.Today
		}
		clean.Accumulated = positiveOrZero(clean.Accumulated)
		out = append(out, clean)
	}
	return out
}

func positiveOrZero(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
