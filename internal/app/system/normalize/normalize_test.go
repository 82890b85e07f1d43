package normalize

import (
	"testing"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

func mriClass() models.WorkplaceRow {
	return models.WorkplaceRow{ID: "mri", Name: "MRI", Kind: models.RowKindClass}
}

func findRow(rows []models.WorkplaceRow, id string) (models.WorkplaceRow, int) {
	for i, r := range rows {
		if r.ID == id {
			return r, i
		}
	}
	return models.WorkplaceRow{}, -1
}

func TestAppState_LegacyTemplateResolvesAssignmentByDayType(t *testing.T) {
	s := models.AppState{
		Rows:            []models.WorkplaceRow{mriClass()},
		MinSlotsByRowID: map[string]models.MinSlots{"mri": {Weekday: 2, Weekend: 1}},
		WeeklyTemplate: &models.WeeklyCalendarTemplate{
			Version: 3,
			Blocks:  []models.TemplateBlock{{ID: "block-a", SectionID: "mri", RequiredSlots: 2}},
			Locations: []models.TemplateLocation{{
				LocationID: models.DefaultLocationID,
				RowBands:   []models.RowBand{{ID: "rb-1", Order: 1}},
				ColBands:   []models.ColBand{{ID: "cb-1", Order: 1}},
				Slots: []models.TemplateSlot{{
					ID: "slot-a", RowBandID: "rb-1", ColBandID: "cb-1", BlockID: "block-a",
				}},
			}},
		},
		Clinicians:  []models.Clinician{{ID: "c1", Name: "Ada"}},
		Assignments: []models.Assignment{{ID: "a1", RowID: "slot-a", DateISO: "2026-01-07", ClinicianID: "c1"}},
	}

	res := AppState(s)
	if !res.Changed {
		t.Fatal("expected changed")
	}

	want := []models.Assignment{{ID: "a1", RowID: "slot-a__wed", DateISO: "2026-01-07", ClinicianID: "c1"}}
	if diff := cmp.Diff(want, res.State.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}

	if got := res.State.MinSlotsByRowID["mri::s1"]; got != (models.MinSlots{Weekday: 2, Weekend: 1}) {
		t.Errorf("min slots = %+v", got)
	}

	required := map[string]int{}
	for _, slot := range res.State.WeeklyTemplate.Locations[0].Slots {
		required[slot.ID] = *slot.RequiredSlots
	}
	for id, want := range map[string]int{"slot-a__mon": 2, "slot-a__fri": 2, "slot-a__sat": 1, "slot-a__holiday": 1} {
		if required[id] != want {
			t.Errorf("%s required = %d, want %d", id, required[id], want)
		}
	}
}

func TestAppState_Idempotent(t *testing.T) {
	before := 9
	s := models.AppState{
		Locations: []models.Location{{ID: "north", Name: "North"}, {ID: "north", Name: "Dup"}},
		Rows: []models.WorkplaceRow{
			{ID: "mri", Name: "MRI", Kind: models.RowKindClass, LocationID: "north",
				SubShifts: []models.SubShift{{ID: "s1", Order: 2, StartTime: "7:00"}, {ID: "s1", Name: "Late"}}},
			{ID: models.PoolDistributionID, Name: "Distribution", Kind: models.RowKindPool},
			{ID: "ct", Name: "CT", LocationID: "nowhere"},
		},
		Clinicians: []models.Clinician{{
			ID:                "c1",
			QualifiedClassIDs: []string{"mri", "gone", "mri"},
			PreferredWorkingTimes: map[string]models.PreferredWorkingTime{
				"mon": {StartTime: "9:00", EndTime: "08:00", Requirement: models.RequirementMandatory},
			},
		}},
		Assignments: []models.Assignment{
			{ID: "a1", RowID: "mri", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "a2", RowID: models.PoolDistributionID, DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "a3", RowID: "ct::s9", DateISO: "2026-01-06", ClinicianID: "c1"},
		},
		SlotOverrides:  map[string]int{"ct__2026-01-06": 1, "ct::s1__2026-01-06": 2},
		SolverSettings: models.SolverSettings{OnCallRestDaysBefore: &before},
		SolverRules: []models.SolverRule{
			{ID: "r1", Enabled: true, IfShiftRowID: "ct::s1", DayDelta: 3, ThenType: "bogus"},
		},
		Holidays: []models.Holiday{{DateISO: "2026-12-25"}, {DateISO: "bad"}},
	}

	first := AppState(s)
	if !first.Changed {
		t.Fatal("first pass should report changes")
	}
	second := AppState(first.State)
	if second.Changed {
		t.Error("second pass reported changed")
	}
	if diff := cmp.Diff(first.State, second.State); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestAppState_DeprecatedPools(t *testing.T) {
	s := models.AppState{
		Rows: []models.WorkplaceRow{
			mriClass(),
			{ID: models.PoolReserveID, Name: "Reserve", Kind: models.RowKindPool},
			{ID: models.PoolVacationID, Name: "Vacation", Kind: models.RowKindPool},
			{ID: models.PoolDistributionID, Name: "Distribution", Kind: models.RowKindPool},
		},
		Clinicians: []models.Clinician{{ID: "c1"}},
		Assignments: []models.Assignment{
			{ID: "a1", RowID: models.PoolReserveID, DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "a2", RowID: models.PoolDistributionID, DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "a3", RowID: models.PoolVacationID, DateISO: "2026-01-05", ClinicianID: "c1"},
		},
	}

	res := AppState(s)

	var ids []string
	for _, r := range res.State.Rows {
		ids = append(ids, r.ID)
	}
	wantIDs := []string{"mri", models.PoolRestDayID, models.PoolVacationID}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	if len(res.State.Assignments) != 1 || res.State.Assignments[0].ID != "a3" {
		t.Errorf("expected only the vacation assignment, got %+v", res.State.Assignments)
	}
}

func TestAppState_RestDayPoolAppended(t *testing.T) {
	res := AppState(models.AppState{Rows: []models.WorkplaceRow{mriClass()}})

	rest, i := findRow(res.State.Rows, models.PoolRestDayID)
	if i != len(res.State.Rows)-1 {
		t.Fatalf("rest day pool at %d", i)
	}
	if rest.Name != RestDayPoolName || !rest.IsPool() {
		t.Errorf("unexpected rest day row %+v", rest)
	}
}

func TestAppState_Settings(t *testing.T) {
	yes := true
	gone := "deleted-class"
	after := -3
	tol := 99.0

	tests := []struct {
		name string
		in   models.SolverSettings
		rows []models.WorkplaceRow
		want models.SolverSettings
	}{
		{
			name: "defaults",
			rows: []models.WorkplaceRow{mriClass()},
			want: models.SolverSettings{
				OnCallRestEnabled:          boolPtr(false),
				OnCallRestClassID:          strPtr("mri"),
				OnCallRestDaysBefore:       intPtr(1),
				OnCallRestDaysAfter:        intPtr(1),
				EnforceSameLocationPerDay:  boolPtr(false),
				WorkingHoursToleranceHours: floatPtr(5),
			},
		},
		{
			name: "clamped and stripped",
			rows: []models.WorkplaceRow{mriClass()},
			in: models.SolverSettings{
				OnCallRestEnabled:          &yes,
				OnCallRestClassID:          &gone,
				OnCallRestDaysAfter:        &after,
				WorkingHoursToleranceHours: &tol,
				AllowMultipleShiftsPerDay:  &yes,
				ShowDistributionPool:       &yes,
				ShowReservePool:            &yes,
			},
			want: models.SolverSettings{
				OnCallRestEnabled:          boolPtr(true),
				OnCallRestClassID:          strPtr("mri"),
				OnCallRestDaysBefore:       intPtr(1),
				OnCallRestDaysAfter:        intPtr(0),
				EnforceSameLocationPerDay:  boolPtr(false),
				WorkingHoursToleranceHours: floatPtr(40),
			},
		},
		{
			name: "no classes",
			want: models.SolverSettings{
				OnCallRestEnabled:          boolPtr(false),
				OnCallRestClassID:          strPtr(""),
				OnCallRestDaysBefore:       intPtr(1),
				OnCallRestDaysAfter:        intPtr(1),
				EnforceSameLocationPerDay:  boolPtr(false),
				WorkingHoursToleranceHours: floatPtr(5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := AppState(models.AppState{Rows: tt.rows, SolverSettings: tt.in})
			if diff := cmp.Diff(tt.want, res.State.SolverSettings); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAppState_AssignmentRowIDs(t *testing.T) {
	s := models.AppState{
		Rows:       []models.WorkplaceRow{mriClass()},
		Clinicians: []models.Clinician{{ID: "c1"}, {ID: "c2"}},
		Assignments: []models.Assignment{
			{ID: "bare", RowID: "mri", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "unknown-sub", RowID: "mri::zzz", DateISO: "2026-01-05", ClinicianID: "c2"},
			{ID: "dup", RowID: "mri::s1", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "unknown-class", RowID: "ct::s1", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "unknown-slot", RowID: "slot-x", DateISO: "2026-01-05", ClinicianID: "c1"},
			{ID: "bad-date", RowID: "mri", DateISO: "2026-13-40", ClinicianID: "c1"},
			{ID: "holiday", RowID: "mri", DateISO: "2026-01-07", ClinicianID: "c1"},
		},
		Holidays: []models.Holiday{{DateISO: "2026-01-07", Name: "Staff day"}},
	}

	res := AppState(s)

	want := []models.Assignment{
		{ID: "bare", RowID: "slot-mri-s1__mon", DateISO: "2026-01-05", ClinicianID: "c1"},
		{ID: "unknown-sub", RowID: "slot-mri-s1__mon", DateISO: "2026-01-05", ClinicianID: "c2"},
		{ID: "holiday", RowID: "slot-mri-s1__holiday", DateISO: "2026-01-07", ClinicianID: "c1"},
	}
	if diff := cmp.Diff(want, res.State.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestAppState_OverridesMerge(t *testing.T) {
	s := models.AppState{
		Rows: []models.WorkplaceRow{mriClass()},
		SlotOverrides: map[string]int{
			"mri__2026-01-05":     1,
			"mri::s1__2026-01-05": 2,
			"ghost__2026-01-05":   4,
			"no-date":             1,
		},
	}

	res := AppState(s)

	want := map[string]int{"slot-mri-s1__mon__2026-01-05": 3}
	if diff := cmp.Diff(want, res.State.SlotOverrides); diff != "" {
		t.Errorf("overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestAppState_RulesDisabled(t *testing.T) {
	s := models.AppState{
		Rows: []models.WorkplaceRow{mriClass()},
		SolverRules: []models.SolverRule{
			{ID: "ok", Enabled: true, IfShiftRowID: "slot-mri-s1__mon", DayDelta: 1, ThenType: models.RuleThenOff},
			{ID: "shift-row", Enabled: true, IfShiftRowID: "mri::s1", DayDelta: -1, ThenType: models.RuleThenShiftRow, ThenShiftRowID: "slot-mri-s1__tue"},
			{ID: "bad-if", Enabled: true, IfShiftRowID: "slot-gone", DayDelta: 1, ThenType: models.RuleThenOff},
			{ID: "bad-then", Enabled: true, IfShiftRowID: "mri::s1", DayDelta: 1, ThenType: models.RuleThenShiftRow, ThenShiftRowID: "ct::s1"},
		},
	}

	res := AppState(s)

	enabled := map[string]bool{}
	for _, r := range res.State.SolverRules {
		enabled[r.ID] = r.Enabled
	}
	want := map[string]bool{"ok": true, "shift-row": true, "bad-if": false, "bad-then": false}
	if diff := cmp.Diff(want, enabled); diff != "" {
		t.Errorf("enabled mismatch (-want +got):\n%s", diff)
	}
}

func TestAppState_PreferredWorkingTimes(t *testing.T) {
	s := models.AppState{
		Clinicians: []models.Clinician{{
			ID: "c1",
			PreferredWorkingTimes: map[string]models.PreferredWorkingTime{
				"mon": {StartTime: "8:00", EndTime: "12:00", Requirement: models.RequirementMandatory},
				"tue": {StartTime: "12:00", EndTime: "12:00", Requirement: models.RequirementPreference},
				"wed": {Requirement: models.RequirementMandatory},
				"thu": {StartTime: "09:00", EndTime: "10:00", Requirement: "sometimes"},
			},
		}},
	}

	got := AppState(s).State.Clinicians[0].PreferredWorkingTimes

	want := map[string]models.PreferredWorkingTime{
		"mon": {StartTime: "08:00", EndTime: "12:00", Requirement: models.RequirementMandatory},
		"tue": {StartTime: "12:00", EndTime: "12:00", Requirement: models.RequirementNone},
		"wed": {Requirement: models.RequirementNone},
		"thu": {StartTime: "09:00", EndTime: "10:00", Requirement: models.RequirementNone},
		"fri": {StartTime: DefaultPreferredStart, EndTime: DefaultPreferredEnd, Requirement: models.RequirementNone},
		"sat": {StartTime: DefaultPreferredStart, EndTime: DefaultPreferredEnd, Requirement: models.RequirementNone},
		"sun": {StartTime: DefaultPreferredStart, EndTime: DefaultPreferredEnd, Requirement: models.RequirementNone},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferred working times mismatch (-want +got):\n%s", diff)
	}
}

func TestAppState_LocationsDisabled(t *testing.T) {
	off := false
	row := mriClass()
	row.LocationID = "north"

	res := AppState(models.AppState{
		LocationsEnabled: &off,
		Locations:        []models.Location{{ID: "north", Name: "North"}},
		Rows:             []models.WorkplaceRow{row},
	})

	got, _ := findRow(res.State.Rows, "mri")
	if got.LocationID != models.DefaultLocationID {
		t.Errorf("location = %q", got.LocationID)
	}
	if *res.State.LocationsEnabled {
		t.Error("locationsEnabled flipped")
	}
	if len(res.State.Locations) != 2 || res.State.Locations[0].ID != models.DefaultLocationID {
		t.Errorf("unexpected locations %+v", res.State.Locations)
	}
}

func strPtr(s string) *string { return &s }
