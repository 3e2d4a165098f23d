package db_models

// Project is owned by the project subsystem; the plan engine only reads it.
type Project struct {
	BaseModel
	Name string

	Notes []Note
	Plans []Plan
}
