package normalize

import (
	"testing"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
)

func strPtr(s string) *string { return &s }

func TestDraft_MigratesLegacyWeatherAM(t *testing.T) {
	raw := &dtos.RawReportDraft{
		ReportDate:  "2026-08-27",
		Weather:     "Rainy",
		Temperature: "24C",
		// no weatherPeriod means AM
	}

	d := Draft(raw)

	if d.WeatherAM != "Rainy" || d.TempAM != "24C" {
		t.Errorf("Expected legacy weather in AM slot, got AM=%q/%q", d.WeatherAM, d.TempAM)
	}
	if d.WeatherPM != "" || d.TempPM != "" {
		t.Errorf("Expected empty PM slot, got PM=%q/%q", d.WeatherPM, d.TempPM)
	}
	if d.CurrentPeriod != dtos.PeriodAM {
		t.Errorf("Expected currentPeriod reset to AM, got %s", d.CurrentPeriod)
	}
}

func TestDraft_MigratesLegacyWeatherPM(t *testing.T) {
	raw := &dtos.RawReportDraft{
		ReportDate:    "2026-08-27",
		Weather:       "Cloudy",
		WeatherPeriod: dtos.PeriodPM,
		Temperature:   "19C",
	}

	d := Draft(raw)

	if d.WeatherPM != "Cloudy" || d.TempPM != "19C" {
		t.Errorf("Expected legacy weather in PM slot, got PM=%q/%q", d.WeatherPM, d.TempPM)
	}
	if d.CurrentPeriod != dtos.PeriodAM {
		t.Errorf("Expected currentPeriod reset to AM even for PM data, got %s", d.CurrentPeriod)
	}
}

func TestDraft_LegacyWithoutWeatherGetsDefault(t *testing.T) {
	d := Draft(&dtos.RawReportDraft{ReportDate: "2026-08-27"})

	if d.WeatherAM != dtos.DefaultWeather {
		t.Errorf("Expected default weather %q, got %q", dtos.DefaultWeather, d.WeatherAM)
	}
}

func TestDraft_SplitFieldsAreTrusted(t *testing.T) {
	// The presence of the weatherAM key, even empty, marks an already
	// migrated draft. The legacy fields must be ignored.
	raw := &dtos.RawReportDraft{
		ReportDate:  "2026-08-27",
		WeatherAM:   strPtr(""),
		WeatherPM:   "Windy",
		TempPM:      "17C",
		Weather:     "Rainy",
		Temperature: "99C",
	}

	d := Draft(raw)

	if d.WeatherAM != "" {
		t.Errorf("Expected empty weatherAM kept verbatim, got %q", d.WeatherAM)
	}
	if d.WeatherPM != "Windy" || d.TempPM != "17C" {
		t.Errorf("Expected split PM fields kept, got %q/%q", d.WeatherPM, d.TempPM)
	}
}

func TestDraft_MigrationIsIdempotent(t *testing.T) {
	first := Draft(&dtos.RawReportDraft{
		ReportDate:  "2026-08-27",
		Weather:     "Rainy",
		Temperature: "24C",
	})

	am := first.WeatherAM
	again := Draft(&dtos.RawReportDraft{
		ReportDate: first.ReportDate,
		WeatherAM:  &am,
		WeatherPM:  first.WeatherPM,
		TempAM:     first.TempAM,
		TempPM:     first.TempPM,
	})

	if again.WeatherAM != first.WeatherAM || again.WeatherPM != first.WeatherPM ||
		again.TempAM != first.TempAM || again.TempPM != first.TempPM {
		t.Error("Expected re-migrating an already migrated draft to change nothing")
	}
}

func TestDraft_FoldsLegacyWorkingTeam(t *testing.T) {
	raw := &dtos.RawReportDraft{
		ReportDate:  "2026-08-27",
		WorkingTeam: []dtos.ResourceRow{{Description: "Mason", Today: 4}},
	}

	d := Draft(raw)

	if len(d.WorkingTeamInterior) != 1 || d.WorkingTeamInterior[0].Description != "Mason" {
		t.Fatalf("Expected legacy workingTeam folded into interior, got %+v", d.WorkingTeamInterior)
	}
	if d.WorkingTeamInterior[0].ID == "" {
		t.Error("Expected folded rows to receive ids")
	}
}

func TestDraft_SplitTeamWinsOverLegacy(t *testing.T) {
	raw := &dtos.RawReportDraft{
		ReportDate:          "2026-08-27",
		WorkingTeam:         []dtos.ResourceRow{{Description: "Old"}},
		WorkingTeamInterior: []dtos.ResourceRow{{Description: "New"}},
	}

	d := Draft(raw)

	if len(d.WorkingTeamInterior) != 1 || d.WorkingTeamInterior[0].Description != "New" {
		t.Errorf("Expected split interior table to win, got %+v", d.WorkingTeamInterior)
	}
}

func TestDraft_NilTablesBecomeEmpty(t *testing.T) {
	d := Draft(&dtos.RawReportDraft{ReportDate: "2026-08-27"})

	for name, table := range map[string][]dtos.ResourceRow{
		"managementTeam":      d.ManagementTeam,
		"workingTeamInterior": d.WorkingTeamInterior,
		"workingTeamMEP":      d.WorkingTeamMEP,
		"materials":           d.Materials,
		"machinery":           d.Machinery,
	} {
		if table == nil {
			t.Errorf("Expected %s to be an empty slice, got nil", name)
		}
	}
	if d.ReferenceSections == nil {
		t.Error("Expected referenceSections to be an empty slice, got nil")
	}
}

func TestDecodeDraft_LegacyJSON(t *testing.T) {
	data := []byte(`{
		"reportDate": "2026-08-27",
		"weather": "Cloudy",
		"weatherPeriod": "PM",
		"temperature": "21C",
		"workingTeam": [{"description": "Plumber", "today": 2}]
	}`)

	d, err := DecodeDraft(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d.WeatherPM != "Cloudy" || d.TempPM != "21C" {
		t.Errorf("Expected PM migration from JSON, got %q/%q", d.WeatherPM, d.TempPM)
	}
	if len(d.WorkingTeamInterior) != 1 {
		t.Errorf("Expected one interior row, got %d", len(d.WorkingTeamInterior))
	}
}

func TestCleanDraft_DoesNotModifyInput(t *testing.T) {
	d := dtos.NewBlankDraft("2026-08-27")
	d.Materials = []dtos.ResourceRow{{Description: ""}, {Description: "Cement", Today: 8}}

	out := CleanDraft(d)

	if len(out.Materials) != 1 {
		t.Errorf("Expected 1 cleaned material row, got %d", len(out.Materials))
	}
	if len(d.Materials) != 2 {
		t.Errorf("Expected input draft untouched, got %d rows", len(d.Materials))
	}
}
