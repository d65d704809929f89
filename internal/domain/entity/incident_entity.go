package entity

import (
	"slices"
	"time"
)

// Incident is a fire or drought event record. The two variants share this
// struct; kind-specific naming (fire_level vs drought_level, burned_area vs
// affected_area, fire_type vs land_type) is resolved by the IncidentKind
// descriptor at the storage and presentation boundaries.
type Incident struct {
	ID             int64
	Province       string
	District       string
	Level          string
	Area           float64
	AffectedPeople int
	StartDate      time.Time
	EndDate        *time.Time
	Status         string
	Category       string
	Description    *string

	// Drought-only attributes; nil for fire incidents.
	WaterSourceImpact *string
	MitigationEfforts *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IncidentKind describes one incident variant: its table, kind-specific
// column names, and the closed enumeration sets the store enforces.
type IncidentKind struct {
	Name           string // route segment, e.g. "fire"
	Label          string // human-readable, e.g. "Fire"
	Table          string
	LevelColumn    string
	AreaColumn     string
	CategoryColumn string
	Levels         []string
	Statuses       []string
	Categories     []string
	DefaultStatus  string
	HasWaterFields bool
}

var FireKind = IncidentKind{
	Name:           "fire",
	Label:          "Fire",
	Table:          "fire_incidents",
	LevelColumn:    "fire_level",
	AreaColumn:     "burned_area",
	CategoryColumn: "fire_type",
	Levels:         []string{"Ringan", "Sedang", "Berat"},
	Statuses:       []string{"Aktif", "Padam"},
	Categories:     []string{"Hutan", "Pemukiman", "Industri", "Lahan"},
	DefaultStatus:  "Aktif",
}

var DroughtKind = IncidentKind{
	Name:           "drought",
	Label:          "Drought",
	Table:          "drought_incidents",
	LevelColumn:    "drought_level",
	AreaColumn:     "affected_area",
	CategoryColumn: "land_type",
	Levels:         []string{"Ringan", "Sedang", "Berat"},
	Statuses:       []string{"Aktif", "Selesai"},
	Categories:     []string{"Pertanian", "Perkebunan", "Pemukiman", "Hutan"},
	DefaultStatus:  "Aktif",
	HasWaterFields: true,
}

func (k IncidentKind) ValidLevel(v string) bool    { return slices.Contains(k.Levels, v) }
func (k IncidentKind) ValidStatus(v string) bool   { return slices.Contains(k.Statuses, v) }
func (k IncidentKind) ValidCategory(v string) bool { return slices.Contains(k.Categories, v) }
