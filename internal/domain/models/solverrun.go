package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Solver run terminal states.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusAborted = "aborted"
	RunStatusError   = "error"
)

// SolverRun records one optimizer invocation and the live statistics of
// every candidate it streamed.
type SolverRun struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID      string             `bson:"run_id" json:"runId"`
	Scope      string             `bson:"scope" json:"scope"`
	StartISO   string             `bson:"start_iso" json:"startISO"`
	EndISO     string             `bson:"end_iso" json:"endISO"`
	Status     string             `bson:"status" json:"status"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	Notes      []string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Candidates []SolverCheckpoint `bson:"candidates" json:"candidates"`
	StartedAt  time.Time          `bson:"started_at" json:"startedAt"`
	FinishedAt *time.Time         `bson:"finished_at,omitempty" json:"finishedAt,omitempty"`
}

// SolverCheckpoint is the telemetry of one streamed candidate.
type SolverCheckpoint struct {
	Sequence  int         `bson:"sequence" json:"sequence"`
	Objective *float64    `bson:"objective,omitempty" json:"objective,omitempty"`
	ElapsedMS int64       `bson:"elapsed_ms" json:"elapsedMs"`
	Stats     SolverStats `bson:"stats" json:"stats"`
}

// SolverStats are the derived progress metrics of a candidate solution.
type SolverStats struct {
	FilledSlots                int `bson:"filled_slots" json:"filledSlots"`
	TotalRequiredSlots         int `bson:"total_required_slots" json:"totalRequiredSlots"`
	OpenSlots                  int `bson:"open_slots" json:"openSlots"`
	NonConsecutiveShifts       int `bson:"non_consecutive_shifts" json:"nonConsecutiveShifts"`
	LocationChanges            int `bson:"location_changes" json:"locationChanges"`
	PeopleWeeksWithinHours     int `bson:"people_weeks_within_hours" json:"peopleWeeksWithinHours"`
	TotalPeopleWeeksWithTarget int `bson:"total_people_weeks_with_target" json:"totalPeopleWeeksWithTarget"`
}
