package response_models

type PlanResponse struct {
	ID             string      `json:"id"`
	ProjectID      string      `json:"project_id"`
	VersionName    string      `json:"version_name"`
	IsOutdated     bool        `json:"is_outdated"`
	Source         string      `json:"source"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	Content        PlanContent `json:"content"`
	CreatedAt      int64       `json:"created_at"`
	UpdatedAt      int64       `json:"updated_at"`
}

type PlanSummary struct {
	ID          string `json:"id"`
	VersionName string `json:"version_name"`
	IsOutdated  bool   `json:"is_outdated"`
	Source      string `json:"source"`
	DayCount    int    `json:"day_count"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type PlanPage struct {
	Items    []PlanSummary `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
