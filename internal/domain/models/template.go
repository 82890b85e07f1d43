package models

// TemplateVersion is the canonical weekly template schema version.
const TemplateVersion = 4

// WeeklyCalendarTemplate is the structural definition of the weekly grid.
// Blocks are shared across locations; bands and slots are per location.
type WeeklyCalendarTemplate struct {
	Version   int                `bson:"version" json:"version"`
	Blocks    []TemplateBlock    `bson:"blocks" json:"blocks"`
	Locations []TemplateLocation `bson:"locations" json:"locations"`
}

// TemplateLocation holds the row bands, column bands and slots of one
// location.
type TemplateLocation struct {
	LocationID string         `bson:"location_id" json:"locationId"`
	RowBands   []RowBand      `bson:"row_bands" json:"rowBands"`
	ColBands   []ColBand      `bson:"col_bands" json:"colBands"`
	Slots      []TemplateSlot `bson:"slots" json:"slots"`
}

// RowBand is a visual row grouping, independent of time.
type RowBand struct {
	ID    string `bson:"id" json:"id"`
	Order int    `bson:"order" json:"order"`
	Label string `bson:"label,omitempty" json:"label,omitempty"`
}

// ColBand is a column scoped to a single day type. Legacy (pre-v4) column
// bands carry no day type.
type ColBand struct {
	ID      string `bson:"id" json:"id"`
	Order   int    `bson:"order" json:"order"`
	DayType string `bson:"day_type,omitempty" json:"dayType,omitempty"`
	Label   string `bson:"label,omitempty" json:"label,omitempty"`
}

// TemplateBlock links a grid placement to a class row and carries its
// minimum staffing requirement.
type TemplateBlock struct {
	ID            string `bson:"id" json:"id"`
	SectionID     string `bson:"section_id" json:"sectionId"`
	Label         string `bson:"label,omitempty" json:"label,omitempty"`
	RequiredSlots int    `bson:"required_slots" json:"requiredSlots"`
	Color         string `bson:"color,omitempty" json:"color,omitempty"`
}

// TemplateSlot is the concrete cell: one row band × one column band × one
// block, with its own effective time window.
type TemplateSlot struct {
	ID            string  `bson:"id" json:"id"`
	LocationID    string  `bson:"location_id" json:"locationId"`
	RowBandID     string  `bson:"row_band_id" json:"rowBandId"`
	ColBandID     string  `bson:"col_band_id" json:"colBandId"`
	BlockID       string  `bson:"block_id" json:"blockId"`
	RequiredSlots *int    `bson:"required_slots,omitempty" json:"requiredSlots,omitempty"`
	StartTime     *string `bson:"start_time,omitempty" json:"startTime,omitempty"`
	EndTime       *string `bson:"end_time,omitempty" json:"endTime,omitempty"`
	EndDayOffset  *int    `bson:"end_day_offset,omitempty" json:"endDayOffset,omitempty"`
}
