package services

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"tripnotes/internal/models/response_models"
)

// ComparePlanContents lists, in day order, every day index at which the
// two plans differ. Days and activities are aligned by position; a day
// missing on one side is always a difference and compares as an empty list.
func ComparePlanContents(a, b response_models.PlanContent) []response_models.DayDiff {
	diffs := make([]response_models.DayDiff, 0)
	for i := 0; i < max(len(a.Days), len(b.Days)); i++ {
		var l, r []response_models.Activity
		if i < len(a.Days) {
			l = a.Days[i].Activities
		}
		if i < len(b.Days) {
			r = b.Days[i].Activities
		}
		changes := compareActivities(l, r)
		missing := i >= len(a.Days) || i >= len(b.Days)
		if !missing && len(changes) == 0 {
			continue
		}
		diffs = append(diffs, response_models.DayDiff{
			Day:             i + 1,
			Plan1Activities: nonNil(l),
			Plan2Activities: nonNil(r),
			Changes:         changes,
		})
	}
	return diffs
}

func compareActivities(l, r []response_models.Activity) []response_models.ActivityChange {
	var changes []response_models.ActivityChange
	dmp := diffmatchpatch.New()

	for i := 0; i < max(len(l), len(r)); i++ {
		switch {
		case i >= len(l):
			changes = append(changes, response_models.ActivityChange{Index: i, Fields: []string{"added"}})
		case i >= len(r):
			changes = append(changes, response_models.ActivityChange{Index: i, Fields: []string{"removed"}})
		case !l[i].SameSlot(r[i]):
			change := response_models.ActivityChange{Index: i, Fields: changedFields(l[i], r[i])}
			if l[i].Description != r[i].Description {
				patches := dmp.PatchMake(l[i].Description, r[i].Description)
				change.DescriptionDiff = dmp.PatchToText(patches)
			}
			changes = append(changes, change)
		}
	}
	return changes
}

func changedFields(a, b response_models.Activity) []string {
	var fields []string
	if a.Time != b.Time {
		fields = append(fields, "time")
	}
	if a.Name != b.Name {
		fields = append(fields, "name")
	}
	if a.Description != b.Description {
		fields = append(fields, "description")
	}
	if a.Type != b.Type {
		fields = append(fields, "type")
	}
	return fields
}

func nonNil(acts []response_models.Activity) []response_models.Activity {
	if acts == nil {
		return []response_models.Activity{}
	}
	return acts
}
