package request_models

import "tripnotes/internal/models/response_models"

type GeneratePlanRequest struct {
	VersionName string `json:"version_name" binding:"required,versionname"`
}

type RenamePlanRequest struct {
	VersionName string `json:"version_name" binding:"required,versionname"`
}

type UpdatePlanContentRequest struct {
	Content response_models.PlanContent `json:"content" binding:"required"`
}

type ComparePlansQuery struct {
	Plan1 string `form:"plan1" binding:"required,uuid"`
	Plan2 string `form:"plan2" binding:"required,uuid"`
}

// Sort keys accepted by ListPlansQuery.SortBy.
const (
	SortByCreatedAt   = "created_at"
	SortByUpdatedAt   = "updated_at"
	SortByVersionName = "version_name"
)

type ListPlansQuery struct {
	Page            int    `form:"page"`
	PageSize        int    `form:"pageSize"`
	IncludeOutdated bool   `form:"includeOutdated"`
	SortBy          string `form:"sortBy" binding:"omitempty,oneof=created_at updated_at version_name"`
	Order           string `form:"order" binding:"omitempty,oneof=asc desc"`
}
