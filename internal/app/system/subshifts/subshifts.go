// Package subshifts normalizes the time windows a class row owns.
package subshifts

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/shiftgrid/internal/app/system/clocktime"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
)

const (
	defaultStart    = 8 * 60
	defaultDuration = 8 * 60
)

// Default returns the single shift synthesized for a row without any.
func Default() models.SubShift {
	return models.SubShift{
		ID:        "s1",
		Name:      "Shift 1",
		Order:     1,
		StartTime: "08:00",
		EndTime:   "16:00",
	}
}

// DefaultStartMinutes is 08:00 for order 1, shifted by eight hours per order.
func DefaultStartMinutes(order int) int {
	return (defaultStart + (order-1)*defaultDuration) % clocktime.MinutesPerDay
}

// Normalize returns 1–3 sub-shifts sorted by order with unique orders and
// ids, canonical times and day offsets clamped to [0,3]. changed is false
// only when in was already in that form.
func Normalize(in []models.SubShift) ([]models.SubShift, bool) {
	if len(in) == 0 {
		return []models.SubShift{Default()}, true
	}

	usedOrders := map[int]bool{}
	usedIDs := map[string]bool{}
	out := make([]models.SubShift, 0, models.MaxSubShifts)

	for _, raw := range in {
		order, ok := pickOrder(raw.Order, usedOrders)
		if !ok {
			// every order is taken; extra shifts are dropped
			continue
		}
		usedOrders[order] = true

		s := models.SubShift{Order: order}
		s.ID = pickID(strings.TrimSpace(raw.ID), order, usedIDs)
		usedIDs[s.ID] = true

		s.Name = strings.TrimSpace(raw.Name)
		if s.Name == "" {
			s.Name = fmt.Sprintf("Shift %d", order)
		}

		start, ok := clocktime.Parse(raw.StartTime)
		if !ok {
			start = DefaultStartMinutes(order)
		}
		s.StartTime = clocktime.Format(start)

		if end, ok := clocktime.Parse(raw.EndTime); ok {
			s.EndTime = clocktime.Format(end)
			s.EndDayOffset = ClampOffset(raw.EndDayOffset)
		} else {
			dur := defaultDuration
			if raw.Hours != nil && *raw.Hours > 0 {
				dur = int(*raw.Hours * 60)
			}
			endAbs := start + dur
			s.EndTime = clocktime.Format(endAbs)
			s.EndDayOffset = ClampOffset(endAbs / clocktime.MinutesPerDay)
		}

		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, !reflect.DeepEqual(in, out)
}

// ClampOffset bounds an end-day offset to [0, MaxEndDayOffset].
func ClampOffset(n int) int {
	if n < 0 {
		return 0
	}
	if n > models.MaxEndDayOffset {
		return models.MaxEndDayOffset
	}
	return n
}

// First returns the lowest-order sub-shift of a normalized list.
func First(list []models.SubShift) (models.SubShift, bool) {
	if len(list) == 0 {
		return models.SubShift{}, false
	}
	return list[0], true
}

func pickOrder(want int, used map[int]bool) (int, bool) {
	if want >= 1 && want <= models.MaxSubShifts && !used[want] {
		return want, true
	}
	for o := 1; o <= models.MaxSubShifts; o++ {
		if !used[o] {
			return o, true
		}
	}
	return 0, false
}

func pickID(want string, order int, used map[string]bool) string {
	if want != "" && !used[want] {
		return want
	}
	if id := "s" + strconv.Itoa(order); !used[id] {
		return id
	}
	for o := 1; o <= models.MaxSubShifts; o++ {
		if id := "s" + strconv.Itoa(o); !used[id] {
			return id
		}
	}
	base := want
	if base == "" {
		base = "s" + strconv.Itoa(order)
	}
	for n := 2; ; n++ {
		if id := base + "-" + strconv.Itoa(n); !used[id] {
			return id
		}
	}
}
