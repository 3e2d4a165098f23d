package response_models

// ComparisonResult lists the days on which two plans differ.
type ComparisonResult struct {
	Plan1ID     string    `json:"plan1_id"`
	Plan1Name   string    `json:"plan1_version_name"`
	Plan2ID     string    `json:"plan2_id"`
	Plan2Name   string    `json:"plan2_version_name"`
	Differences []DayDiff `json:"differences"`
}

// DayDiff carries both sides of a differing day. A side that has no such
// day gets an empty list.
type DayDiff struct {
	Day             int              `json:"day"`
	Plan1Activities []Activity       `json:"plan1_activities"`
	Plan2Activities []Activity       `json:"plan2_activities"`
	Changes         []ActivityChange `json:"changes,omitempty"`
}

// ActivityChange points at one index-aligned activity pair that differs.
type ActivityChange struct {
	Index           int      `json:"index"`
	Fields          []string `json:"fields"`
	DescriptionDiff string   `json:"description_diff,omitempty"`
}
