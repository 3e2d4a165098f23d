package utils

// Log field names shared by every component so log queries stay uniform.
const (
	FieldTraceID     = "traceId"
	FieldProjectID   = "projectId"
	FieldPlanID      = "planId"
	FieldVersionName = "versionName"
	FieldDuration    = "duration"
	FieldProvider    = "provider"
	FieldBytes       = "bytes"
	FieldChunks      = "chunks"
	FieldModel       = "model"
	FieldSource      = "source"
	FieldReason      = "reason"
	FieldComponent   = "component"
)

// TraceIDKey is the gin context key the trace middleware stores the id under.
const TraceIDKey = "trace_id"
