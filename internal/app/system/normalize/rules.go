package normalize

import (
	"github.com/dalemusser/shiftgrid/internal/app/system/shiftid"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

// normalizeRules disables rules whose "if" row, or "then" row for shiftRow
// rules, no longer exists. Day deltas are ±1 and unknown consequence types
// become "off".
func (r *resolver) normalizeRules(in []models.SolverRule) []models.SolverRule {
	out := make([]models.SolverRule, 0, len(in))
	for _, rule := range in {
		if rule.DayDelta < 0 {
			rule.DayDelta = -1
		} else {
			rule.DayDelta = 1
		}
		if rule.ThenType != models.RuleThenShiftRow {
			rule.ThenType = models.RuleThenOff
			rule.ThenShiftRowID = ""
		}

		valid := r.ruleTarget(rule.IfShiftRowID)
		if rule.ThenType == models.RuleThenShiftRow {
			valid = valid && r.ruleTarget(rule.ThenShiftRowID)
		}
		if !valid {
			rule.Enabled = false
		}
		out = append(out, rule)
	}
	return out
}

// ruleTarget reports whether id names a canonical slot or an existing shift
// row.
func (r *resolver) ruleTarget(id string) bool {
	if id == "" {
		return false
	}
	if r.index.HasSlot(id) {
		return true
	}
	if !shiftid.IsShiftRowID(id) {
		return false
	}
	ref := shiftid.ParseShiftRowID(id)
	row, ok := r.classes[ref.ClassID]
	if !ok {
		return false
	}
	for _, s := range row.SubShifts {
		if s.ID == ref.SubShiftID {
			return true
		}
	}
	return false
}
