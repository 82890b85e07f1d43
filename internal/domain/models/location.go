package models

// Location is a physical site that class rows are bound to.
type Location struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// DefaultLocationID is reserved; the registry always contains it.
const DefaultLocationID = "loc-default"

// DefaultLocationName is used when the default location has to be synthesized.
const DefaultLocationName = "Default"
