package testutil

import (
	"context"
	"testing"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// SampleState is a small legacy-shaped state: one class without sub-shifts,
// a version 3 template, a legacy per-class minimum, a deprecated pool and
// assignments that only resolve after normalization.
func SampleState(scope string) models.AppState {
	return models.AppState{
		Scope: scope,
		Rows: []models.WorkplaceRow{
			{ID: "mri", Name: "MRI", Kind: models.RowKindClass, Color: "teal"},
			{ID: "oncall", Name: "On Call", Kind: models.RowKindClass},
			{ID: models.PoolReserveID, Name: "Reserve", Kind: models.RowKindPool},
			{ID: models.PoolVacationID, Name: "Vacation", Kind: models.RowKindPool},
		},
		Clinicians: []models.Clinician{
			{ID: "c1", Name: "Ada", QualifiedClassIDs: []string{"mri", "oncall"}},
			{ID: "c2", Name: "Grace", QualifiedClassIDs: []string{"mri"},
				Vacations: []models.VacationRange{{ID: "v1", StartISO: "2026-01-08", EndISO: "2026-01-09"}}},
		},
		MinSlotsByRowID: map[string]models.MinSlots{"mri": {Weekday: 2, Weekend: 1}},
		WeeklyTemplate: &models.WeeklyCalendarTemplate{
			Version: 3,
			Blocks:  []models.TemplateBlock{{ID: "block-a", SectionID: "mri", RequiredSlots: 2}},
			Locations: []models.TemplateLocation{{
				LocationID: models.DefaultLocationID,
				RowBands:   []models.RowBand{{ID: "rb-1", Order: 1, Label: "MRI"}},
				ColBands:   []models.ColBand{{ID: "cb-1", Order: 1}},
				Slots: []models.TemplateSlot{{
					ID: "slot-a", RowBandID: "rb-1", ColBandID: "cb-1", BlockID: "block-a",
				}},
			}},
		},
		Assignments: []models.Assignment{
			{ID: "a1", RowID: "slot-a", DateISO: "2026-01-07", ClinicianID: "c1"},
			{ID: "a2", RowID: "mri", DateISO: "2026-01-08", ClinicianID: "c2"},
			{ID: "a3", RowID: "oncall", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "a4", RowID: models.PoolReserveID, DateISO: "2026-01-05", ClinicianID: "c2"},
		},
		SolverSettings: models.SolverSettings{OnCallRestEnabled: boolPtr(true), OnCallRestClassID: strPtr("oncall")},
	}
}

// Fixtures inserts test data into a test database.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
}

// NewFixtures returns fixtures bound to db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// CreateAppState stores s as-is, bypassing normalization.
func (f *Fixtures) CreateAppState(ctx context.Context, s models.AppState) models.AppState {
	f.t.Helper()
	if _, err := f.db.Collection("app_state").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("insert app state: %v", err)
	}
	return s
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
