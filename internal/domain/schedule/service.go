package schedule

import (
	"slices"
	"time"
)

// ActiveTemplateFor returns the first template assigned to employeeID whose window contains now.
// Templates are checked in name order so the answer is stable when windows overlap.
func ActiveTemplateFor(templates []ShiftTemplate, employeeID string, now time.Time) (ShiftTemplate, bool) {
	sorted := slices.Clone(templates)
	slices.SortFunc(sorted, func(a, b ShiftTemplate) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	for _, t := range sorted {
		if t.AssignedTo(employeeID) && t.Covers(now) {
			return t, true
		}
	}
	return ShiftTemplate{}, false
}
