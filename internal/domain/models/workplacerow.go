package models

// Row kinds.
const (
	RowKindClass = "class"
	RowKindPool  = "pool"
)

// Well-known pool row ids.
//
// PoolDistributionID and PoolReserveID are deprecated: normalization removes
// both rows and every assignment that references them.
const (
	PoolRestDayID      = "pool-rest-day"
	PoolVacationID     = "pool-vacation"
	PoolDistributionID = "pool-not-allocated"
	PoolReserveID      = "pool-manual"
)

// IsDeprecatedPool reports whether id names one of the retired pools.
func IsDeprecatedPool(id string) bool {
	return id == PoolDistributionID || id == PoolReserveID
}

// WorkplaceRow is a row of the scheduling grid. Class rows are staff
// sections (e.g. "MRI") and own 1–3 sub-shifts; pool rows are holding
// buckets such as rest day or vacation.
type WorkplaceRow struct {
	ID         string     `bson:"id" json:"id"`
	Name       string     `bson:"name" json:"name"`
	Kind       string     `bson:"kind" json:"kind"`
	LocationID string     `bson:"location_id,omitempty" json:"locationId,omitempty"`
	Color      string     `bson:"color,omitempty" json:"color,omitempty"`
	SubShifts  []SubShift `bson:"sub_shifts,omitempty" json:"subShifts,omitempty"`
}

// IsClass reports whether the row is a staff section.
func (r WorkplaceRow) IsClass() bool { return r.Kind == RowKindClass }

// IsPool reports whether the row is a holding bucket.
func (r WorkplaceRow) IsPool() bool { return r.Kind == RowKindPool }

// SubShift is one time window of a class row.
//
// Hours is the pre-window legacy duration; it is consumed when computing a
// default end time and is not written back.
type SubShift struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Order        int      `bson:"order" json:"order"`
	StartTime    string   `bson:"start_time" json:"startTime"`
	EndTime      string   `bson:"end_time" json:"endTime"`
	EndDayOffset int      `bson:"end_day_offset" json:"endDayOffset"`
	Hours        *float64 `bson:"hours,omitempty" json:"hours,omitempty"`
}

// MaxSubShifts is the number of time windows a class row may own.
const MaxSubShifts = 3

// MaxEndDayOffset bounds how many days past its start a shift may end.
const MaxEndDayOffset = 3
