package session

import (
	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

// MapPrevFromAccum rolls a prior day's running totals into the seed rows
// for the next day: prev takes the prior accumulated, today starts at
// zero, and accumulated carries forward unchanged until the user enters
// new today values. Identity and descriptive fields are preserved.
func MapPrevFromAccum(rows []dtos.ResourceRow) []dtos.ResourceRow {
	out := make([]dtos.ResourceRow, len(rows))
	for i, row := range rows {
		out[i] = dtos.ResourceRow{
			ID:          row.ID,
			Description: row.Description,
			Unit:        row.Unit,
			Prev:        row.Accumulated,
			Today:       0,
			Accumulated: row.Accumulated,
		}
	}
	return out
}

// DeriveNextDay computes the seed draft for date from a prior day's
// draft. Only the resource-table running totals survive the date jump;
// project name, weather, temperatures and activity text all reset to
// their defaults.
func DeriveNextDay(prior *dtos.ReportDraft, date string) *dtos.ReportDraft {
	d := dtos.NewBlankDraft(date)
	d.ManagementTeam = MapPrevFromAccum(prior.ManagementTeam)
	d.WorkingTeamInterior = MapPrevFromAccum(prior.WorkingTeamInterior)
	d.WorkingTeamMEP = MapPrevFromAccum(prior.WorkingTeamMEP)
	d.Materials = MapPrevFromAccum(prior.Materials)
	d.Machinery = MapPrevFromAccum(prior.Machinery)
	return d
}
