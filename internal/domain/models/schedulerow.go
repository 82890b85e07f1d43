package models

// ScheduleRow is one renderable row of the grid. Template-backed rows carry
// a slot and a single day type; legacy rows carry a shift row id and
// weekday/weekend minimums instead.
type ScheduleRow struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	SectionID    string    `json:"sectionId,omitempty"`
	SubShiftID   string    `json:"subShiftId,omitempty"`
	LocationID   string    `json:"locationId,omitempty"`
	RowBandID    string    `json:"rowBandId,omitempty"`
	ColBandID    string    `json:"colBandId,omitempty"`
	BlockID      string    `json:"blockId,omitempty"`
	DayType      string    `json:"dayType,omitempty"`
	Label        string    `json:"label,omitempty"`
	Color        string    `json:"color,omitempty"`
	StartTime    string    `json:"startTime,omitempty"`
	EndTime      string    `json:"endTime,omitempty"`
	EndDayOffset int       `json:"endDayOffset"`
	Required     int       `json:"requiredSlots"`
	MinSlots     *MinSlots `json:"minSlots,omitempty"`
}

// IsClass reports whether the row represents worked time.
func (r ScheduleRow) IsClass() bool { return r.Kind == RowKindClass }
