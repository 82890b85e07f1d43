package models

// Assignment places a clinician in a row on a date. RowID is a pool id or a
// slot id; stored data may also carry a bare class id, a shift row id or a
// legacy slot id, all of which normalization resolves.
type Assignment struct {
	ID          string `bson:"id" json:"id"`
	RowID       string `bson:"row_id" json:"rowId"`
	DateISO     string `bson:"date_iso" json:"dateISO"`
	ClinicianID string `bson:"clinician_id" json:"clinicianId"`
}

// MinSlots is the minimum staffing for a shift row on weekdays and on
// weekends/holidays.
type MinSlots struct {
	Weekday int `bson:"weekday" json:"weekday"`
	Weekend int `bson:"weekend" json:"weekend"`
}

// Holiday marks a date that uses the holiday day type.
type Holiday struct {
	DateISO string `bson:"date_iso" json:"dateISO"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
}
