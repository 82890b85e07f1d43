package intervals

import (
	"testing"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

func classRow(id, start, end string, offset int) models.ScheduleRow {
	return models.ScheduleRow{ID: id, Kind: models.RowKindClass, StartTime: start, EndTime: end, EndDayOffset: offset}
}

func TestBuildShiftInterval(t *testing.T) {
	tests := []struct {
		name   string
		row    models.ScheduleRow
		want   Interval
		wantOK bool
	}{
		{"day shift", classRow("a", "08:00", "16:00", 0), Interval{480, 960}, true},
		{"overnight", classRow("a", "22:00", "06:00", 1), Interval{1320, 1800}, true},
		{"offset clamped", classRow("a", "08:00", "08:00", 9), Interval{480, 480 + 3*1440}, true},
		{"negative offset", classRow("a", "08:00", "16:00", -2), Interval{480, 960}, true},
		{"end before start", classRow("a", "22:00", "06:00", 0), Interval{}, false},
		{"zero length", classRow("a", "08:00", "08:00", 0), Interval{}, false},
		{"bad time", classRow("a", "8am", "16:00", 0), Interval{}, false},
		{"pool", models.ScheduleRow{ID: "p", Kind: models.RowKindPool, StartTime: "08:00", EndTime: "16:00"}, Interval{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BuildShiftInterval(tt.row)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("BuildShiftInterval() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"touching", Interval{0, 60}, Interval{60, 120}, false},
		{"touching reversed", Interval{60, 120}, Interval{0, 60}, false},
		{"partial", Interval{0, 61}, Interval{60, 120}, true},
		{"contained", Interval{0, 600}, Interval{60, 120}, true},
		{"identical", Interval{60, 120}, Interval{60, 120}, true},
		{"disjoint", Interval{0, 30}, Interval{60, 120}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	rows := []models.ScheduleRow{
		classRow("day", "08:00", "16:00", 0),
		classRow("late", "12:00", "20:00", 0),
		classRow("evening", "16:00", "22:00", 0),
		classRow("night", "22:00", "09:00", 1),
		{ID: models.PoolRestDayID, Kind: models.RowKindPool},
	}
	a := []models.Assignment{
		{ID: "1", RowID: "day", DateISO: "2026-01-05", ClinicianID: "c1"},
		{ID: "2", RowID: "late", DateISO: "2026-01-05", ClinicianID: "c1"},
		{ID: "3", RowID: "evening", DateISO: "2026-01-06", ClinicianID: "c2"},
		{ID: "4", RowID: "day", DateISO: "2026-01-06", ClinicianID: "c2"},
		{ID: "5", RowID: "night", DateISO: "2026-01-06", ClinicianID: "c3"},
		{ID: "6", RowID: "day", DateISO: "2026-01-07", ClinicianID: "c3"},
		{ID: "7", RowID: models.PoolRestDayID, DateISO: "2026-01-07", ClinicianID: "c3"},
	}

	got := FindConflicts(a, rows)

	want := []Conflict{
		{ClinicianID: "c1", First: a[0], Second: a[1]},
		{ClinicianID: "c3", First: a[4], Second: a[5]},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conflicts mismatch (-want +got):\n%s", diff)
	}
}
