package dtos

// Period identifies which half of the working day a weather observation
// belongs to.
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// Report statuses as stored by the report service.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

// DefaultWeather is assumed when a legacy draft carries no weather value.
const DefaultWeather = "Sunny"

// ResourceRow is one line of a resource table (team, material or machine).
// Prev is the quantity carried in from earlier days, Today the quantity
// consumed or added on the report date, Accumulated the running total.
type ResourceRow struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Prev        float64 `json:"prev"`
	Today       float64 `json:"today"`
	Accumulated float64 `json:"accumulated"`
}

// PhotoSlot holds one photo reference and its caption. Image may be a
// data URL, a remote URL, or (transiently, before upload normalization)
// a local file path.
type PhotoSlot struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

// SectionEntry is one row of a reference section gallery.
type SectionEntry struct {
	Slots []PhotoSlot `json:"slots"`
}

// ReferenceSection is a titled gallery of photo evidence entries.
type ReferenceSection struct {
	Title   string         `json:"title"`
	Entries []SectionEntry `json:"entries"`
}

// CARPhotoGroup is one titled photo group on a corrective-action-request
// sheet.
type CARPhotoGroup struct {
	Title string      `json:"title"`
	Slots []PhotoSlot `json:"slots"`
}

// CARSheet is the optional corrective-action-request attachment.
type CARSheet struct {
	Description string          `json:"description"`
	PhotoGroups []CARPhotoGroup `json:"photoGroups"`
}

// ReportDraft is the unit of persistence and exchange: one day's report,
// in canonical (migrated) shape.
type ReportDraft struct {
	ReportID    string `json:"reportId,omitempty"`
	ProjectName string `json:"projectName"`
	ReportDate  string `json:"reportDate"`

	WeatherAM     string `json:"weatherAM"`
	WeatherPM     string `json:"weatherPM"`
	TempAM        string `json:"tempAM"`
	TempPM        string `json:"tempPM"`
	CurrentPeriod Period `json:"currentPeriod"`

	ActivityToday   string `json:"activityToday"`
	WorkPlanNextDay string `json:"workPlanNextDay"`

	ManagementTeam      []ResourceRow `json:"managementTeam"`
	WorkingTeamInterior []ResourceRow `json:"workingTeamInterior"`
	WorkingTeamMEP      []ResourceRow `json:"workingTeamMEP"`
	Materials           []ResourceRow `json:"materials"`
	Machinery           []ResourceRow `json:"machinery"`

	ReferenceSections []ReferenceSection `json:"referenceSections"`
	CARSheet          *CARSheet          `json:"carSheet,omitempty"`
}

// NewBlankDraft returns the documented defaults for a freshly opened date:
// empty strings, empty resource tables, currentPeriod AM.
func NewBlankDraft(date string) *ReportDraft {
	return &ReportDraft{
		ReportDate:          date,
		CurrentPeriod:       PeriodAM,
		ManagementTeam:      []ResourceRow{},
		WorkingTeamInterior: []ResourceRow{},
		WorkingTeamMEP:      []ResourceRow{},
		Materials:           []ResourceRow{},
		Machinery:           []ResourceRow{},
		ReferenceSections:   []ReferenceSection{},
	}
}

// RawReportDraft is the decode-time shape of a draft loaded from the
// remote store or the local draft store. It still carries the legacy
// single weather/temperature fields and the pre-split working team; a
// nil WeatherAM means the source predates the AM/PM split and must be
// migrated. Nothing outside the normalize package should consume this
// type directly.
type RawReportDraft struct {
	ReportID    string `json:"reportId,omitempty"`
	ProjectName string `json:"projectName"`
	ReportDate  string `json:"reportDate"`

	WeatherAM     *string `json:"weatherAM,omitempty"`
	WeatherPM     string  `json:"weatherPM,omitempty"`
	TempAM        string  `json:"tempAM,omitempty"`
	TempPM        string  `json:"tempPM,omitempty"`
	CurrentPeriod Period  `json:"currentPeriod,omitempty"`

	// Legacy single-value fields, kept only for one-way migration.
	Weather       string `json:"weather,omitempty"`
	WeatherPeriod Period `json:"weatherPeriod,omitempty"`
	Temperature   string `json:"temperature,omitempty"`

	ActivityToday   string `json:"activityToday"`
	WorkPlanNextDay string `json:"workPlanNextDay"`

	ManagementTeam      []ResourceRow `json:"managementTeam"`
	WorkingTeam         []ResourceRow `json:"workingTeam,omitempty"`
	WorkingTeamInterior []ResourceRow `json:"workingTeamInterior,omitempty"`
	WorkingTeamMEP      []ResourceRow `json:"workingTeamMEP,omitempty"`
	Materials           []ResourceRow `json:"materials"`
	Machinery           []ResourceRow `json:"machinery"`

	ReferenceSections []ReferenceSection `json:"referenceSections"`
	CARSheet          *CARSheet          `json:"carSheet,omitempty"`
}

// ReportPatch is the typed partial-update payload used by autosave.
// Nil fields are left untouched by the server-side merge.
type ReportPatch struct {
	ProjectName     *string `json:"projectName,omitempty"`
	WeatherAM       *string `json:"weatherAM,omitempty"`
	WeatherPM       *string `json:"weatherPM,omitempty"`
	TempAM          *string `json:"tempAM,omitempty"`
	TempPM          *string `json:"tempPM,omitempty"`
	CurrentPeriod   *Period `json:"currentPeriod,omitempty"`
	ActivityToday   *string `json:"activityToday,omitempty"`
	WorkPlanNextDay *string `json:"workPlanNextDay,omitempty"`

	ManagementTeam      *[]ResourceRow `json:"managementTeam,omitempty"`
	WorkingTeamInterior *[]ResourceRow `json:"workingTeamInterior,omitempty"`
	WorkingTeamMEP      *[]ResourceRow `json:"workingTeamMEP,omitempty"`
	Materials           *[]ResourceRow `json:"materials,omitempty"`
	Machinery           *[]ResourceRow `json:"machinery,omitempty"`

	ReferenceSections *[]ReferenceSection `json:"referenceSections,omitempty"`
	CARSheet          *CARSheet           `json:"carSheet,omitempty"`
}
