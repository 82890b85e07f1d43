package daytype

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOf(t *testing.T) {
	holidays := map[string]bool{"2026-01-01": true}

	tests := []struct {
		date string
		want string
	}{
		{"2026-01-05", Mon},
		{"2026-01-07", Wed},
		{"2026-01-10", Sat},
		{"2026-01-11", Sun},
		{"2026-01-01", Holiday}, // a Thursday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, ok := Of(tt.date, holidays)
			if !ok || got != tt.want {
				t.Errorf("Of(%q) = (%q, %v), want %q", tt.date, got, ok, tt.want)
			}
		})
	}

	if _, ok := Of("2026-13-01", nil); ok {
		t.Error("expected malformed date to be rejected")
	}
}

func TestRange(t *testing.T) {
	got := Range("2026-01-30", "2026-02-02")
	want := []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}
	if got := Range("2026-02-02", "2026-01-30"); got != nil {
		t.Errorf("reversed range = %v, want nil", got)
	}
}

func TestAddDays(t *testing.T) {
	got, ok := AddDays("2026-01-05", -1)
	if !ok || got != "2026-01-04" {
		t.Errorf("AddDays = (%q, %v)", got, ok)
	}
}

func TestISOWeek(t *testing.T) {
	a, _ := ISOWeek("2026-01-04") // Sunday, still week 1 of 2026
	b, _ := ISOWeek("2026-01-05") // Monday, week 2
	if a == b {
		t.Errorf("expected different ISO weeks, got %+v and %+v", a, b)
	}
	if b != (WeekKey{Year: 2026, Week: 2}) {
		t.Errorf("ISOWeek(2026-01-05) = %+v", b)
	}
}

func TestIndexOrder(t *testing.T) {
	if Index(Mon) != 0 || Index(Holiday) != 7 || Index("xyz") != 8 {
		t.Error("unexpected day type ordering")
	}
}
