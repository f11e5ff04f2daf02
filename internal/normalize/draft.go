package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

// Draft converts a freshly loaded raw draft into the canonical shape.
// Every load path (remote by id, remote by date, local draft, fallback
// after a failed load) goes through this one function, so the rest of
// the system only ever sees migrated data:
//
//   - legacy weather/weatherPeriod/temperature are folded into the
//     AM/PM split fields,
//   - a legacy single workingTeam table lands in workingTeamInterior,
//   - every resource row gets a stable id.
func Draft(raw *dtos.RawReportDraft) *dtos.ReportDraft {
	if raw == nil {
		return nil
	}

	d := &dtos.ReportDraft{
		ReportID:        raw.ReportID,
		ProjectName:     raw.ProjectName,
		ReportDate:      raw.ReportDate,
		ActivityToday:   raw.ActivityToday,
		WorkPlanNextDay: raw.WorkPlanNextDay,

		ManagementTeam:      EnsureRowIDs(raw.ManagementTeam),
		WorkingTeamInterior: EnsureRowIDs(raw.WorkingTeamInterior),
		WorkingTeamMEP:      EnsureRowIDs(raw.WorkingTeamMEP),
		Materials:           EnsureRowIDs(raw.Materials),
		Machinery:           EnsureRowIDs(raw.Machinery),

		ReferenceSections: raw.ReferenceSections,
		CARSheet:          raw.CARSheet,
	}

	if raw.WeatherAM != nil {
		// The presence of the weatherAM key, even as an empty string,
		// means the source already uses the split fields. Trust them.
		d.WeatherAM = *raw.WeatherAM
		d.WeatherPM = raw.WeatherPM
		d.TempAM = raw.TempAM
		d.TempPM = raw.TempPM
	} else {
		weather := raw.Weather
		if weather == "" {
			weather = dtos.DefaultWeather
		}
		period := raw.WeatherPeriod
		if period == "" {
			period = dtos.PeriodAM
		}
		if period == dtos.PeriodPM {
			d.WeatherPM = weather
			d.TempPM = raw.Temperature
		} else {
			d.WeatherAM = weather
			d.TempAM = raw.Temperature
		}
	}
	// The editing period always restarts at AM after a load.
	d.CurrentPeriod = dtos.PeriodAM

	// Pre-split drafts have a single working team table.
	if len(d.WorkingTeamInterior) == 0 && len(raw.WorkingTeam) > 0 {
		d.WorkingTeamInterior = EnsureRowIDs(raw.WorkingTeam)
	}

	if d.ManagementTeam == nil {
		d.ManagementTeam = []dtos.ResourceRow{}
	}
	if d.WorkingTeamInterior == nil {
		d.WorkingTeamInterior = []dtos.ResourceRow{}
	}
	if d.WorkingTeamMEP == nil {
		d.WorkingTeamMEP = []dtos.ResourceRow{}
	}
	if d.Materials == nil {
		d.Materials = []dtos.ResourceRow{}
	}
	if d.Machinery == nil {
		d.Machinery = []dtos.ResourceRow{}
	}
	if d.ReferenceSections == nil {
		d.ReferenceSections = []dtos.ReferenceSection{}
	}

	return d
}

// DecodeDraft parses raw JSON into the canonical draft shape, applying
// the legacy migration.
func DecodeDraft(data []byte) (*dtos.ReportDraft, error) {
	var raw dtos.RawReportDraft
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode report draft: %w", err)
	}
	return Draft(&raw), nil
}

// CleanDraft returns a copy of d with every resource table passed
// through CleanResourceRows. The input draft is not modified.
func CleanDraft(d *dtos.ReportDraft) *dtos.ReportDraft {
	out := *d
	out.ManagementTeam = CleanResourceRows(d.ManagementTeam)
	out.WorkingTeamInterior = CleanResourceRows(d.WorkingTeamInterior)
	out.WorkingTeamMEP = CleanResourceRows(d.WorkingTeamMEP)
	out.Materials = CleanResourceRows(d.Materials)
	out.Machinery = CleanResourceRows(d.Machinery)
	return &out
}
