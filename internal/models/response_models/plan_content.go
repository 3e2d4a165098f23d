package response_models

// ActivityType is the closed vocabulary every activity is normalized into.
type ActivityType string

const (
	ActivitySightseeing    ActivityType = "sightseeing"
	ActivityMeal           ActivityType = "meal"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivityTransportation ActivityType = "transportation"
	ActivityFree           ActivityType = "free"
	ActivityOther          ActivityType = "other"
)

// PlanContent is the stored itinerary. Days are 1-based and contiguous;
// activity order inside a day is display order, not chronological order.
type PlanContent struct {
	Days []Day `json:"days"`
}

type Day struct {
	DayNumber  int        `json:"day_number"`
	Date       string     `json:"date"`
	Weather    string     `json:"weather,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	Time        string       `json:"time"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	Location    string       `json:"location,omitempty"`
	Price       string       `json:"price,omitempty"`
	Rating      *float64     `json:"rating,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// SameSlot reports whether two activities match on the fields plan
// comparison looks at: time, name, description and type.
func (a Activity) SameSlot(b Activity) bool {
	return a.Time == b.Time &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Type == b.Type
}

// ActivityCount totals activities across all days.
func (p PlanContent) ActivityCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Activities)
	}
	return n
}
