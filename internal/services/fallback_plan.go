package services

import (
	"fmt"

	"tripnotes/internal/models/response_models"
	"tripnotes/pkg/utils"
)

type fallbackSlot struct {
	time        string
	name        string
	description string
	kind        response_models.ActivityType
}

var fallbackDay = []fallbackSlot{
	{"09:00", "Breakfast", "Breakfast near your accommodation in %s", response_models.ActivityMeal},
	{"10:00", "Sightseeing", "Explore the main sights of %s", response_models.ActivitySightseeing},
	{"13:00", "Lunch", "Lunch at a local restaurant in %s", response_models.ActivityMeal},
	{"15:00", "Free time", "Free time to wander around %s", response_models.ActivityFree},
	{"19:00", "Dinner", "Dinner in %s", response_models.ActivityMeal},
}

// BuildFallbackPlan produces the deterministic skeleton itinerary used
// when model output cannot be used: one day per trip day, five fixed
// activities each, dated from the arrival date.
func BuildFallbackPlan(cfg response_models.TravelConfig) response_models.PlanContent {
	numDays := cfg.NumDays
	if numDays < 1 {
		numDays = 1
	}
	arrival, err := cfg.Arrival()

	content := response_models.PlanContent{Days: make([]response_models.Day, 0, numDays)}
	for i := 0; i < numDays; i++ {
		day := response_models.Day{
			DayNumber:  i + 1,
			Activities: make([]response_models.Activity, 0, len(fallbackDay)),
		}
		if err == nil {
			day.Date = utils.AddDays(arrival, i)
		}
		for _, slot := range fallbackDay {
			day.Activities = append(day.Activities, response_models.Activity{
				Time:        slot.time,
				Name:        slot.name,
				Description: fmt.Sprintf(slot.description, cfg.Destination),
				Type:        slot.kind,
				Location:    cfg.Destination,
			})
		}
		content.Days = append(content.Days, day)
	}
	return content
}
