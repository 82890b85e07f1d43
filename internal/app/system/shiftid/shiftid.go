// Package shiftid builds and parses the composite identifiers used across
// the schedule: shift row ids (class × sub-shift), day-typed slot ids and
// assignment map keys.
package shiftid

import "strings"

// Separator joins a class id and a sub-shift id.
const Separator = "::"

// DayTypeSeparator joins a base slot id (or column band id) and a day type.
const DayTypeSeparator = "__"

// KeySeparator joins a row id and an ISO date in assignment map keys.
const KeySeparator = "__"

// ShiftRowRef is a parsed shift row id. SubShiftID is empty when the id was
// a bare class id.
type ShiftRowRef struct {
	ClassID    string
	SubShiftID string
}

// HasSubShift reports whether the parsed id named a sub-shift.
func (r ShiftRowRef) HasSubShift() bool { return r.SubShiftID != "" }

// BuildShiftRowID returns "classID::subShiftID".
func BuildShiftRowID(classID, subShiftID string) string {
	return classID + Separator + subShiftID
}

// ParseShiftRowID splits rowID at the first separator.
func ParseShiftRowID(rowID string) ShiftRowRef {
	i := strings.Index(rowID, Separator)
	if i < 0 {
		return ShiftRowRef{ClassID: rowID}
	}
	return ShiftRowRef{ClassID: rowID[:i], SubShiftID: rowID[i+len(Separator):]}
}

// IsShiftRowID reports whether rowID contains the class/sub-shift separator.
func IsShiftRowID(rowID string) bool {
	return strings.Contains(rowID, Separator)
}

// DayTyped returns the per-day-type variant of a legacy slot or column band
// id, e.g. "slot-a__mon".
func DayTyped(base, dayType string) string {
	return base + DayTypeSeparator + dayType
}

// DefaultSlotBase is the base id of a slot synthesized for a sub-shift.
func DefaultSlotBase(classID, subShiftID string) string {
	return "slot-" + classID + "-" + subShiftID
}

// DefaultRowBandID is the id of the row band synthesized for a sub-shift.
func DefaultRowBandID(classID, subShiftID string) string {
	return "rb-" + classID + "-" + subShiftID
}

// DefaultBlockID is the id of the block synthesized for a sub-shift.
func DefaultBlockID(classID, subShiftID string) string {
	return "block-" + classID + "-" + subShiftID
}

// DefaultColBandID is the id of the column band synthesized for a location
// and day type.
func DefaultColBandID(locationID, dayType string) string {
	return DayTyped("cb-"+locationID, dayType)
}

// AssignmentKey returns "rowID__dateISO".
func AssignmentKey(rowID, dateISO string) string {
	return rowID + KeySeparator + dateISO
}

// SplitAssignmentKey splits a key at its last separator. Dates never
// contain the separator; row ids may.
func SplitAssignmentKey(key string) (rowID, dateISO string, ok bool) {
	i := strings.LastIndex(key, KeySeparator)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+len(KeySeparator):], true
}
