package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/pkg/utils"
)

const defaultActivityTime = "09:00"

var (
	leadingClock = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})(?:\s*([aApP])\.?[mM]\.?)?`)
	codeFence    = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\s*```$")
)

var activityTypes = map[string]response_models.ActivityType{
	"sightseeing": response_models.ActivitySightseeing,
	"sight":       response_models.ActivitySightseeing,
	"attraction":  response_models.ActivitySightseeing,
	"landmark":    response_models.ActivitySightseeing,
	"museum":      response_models.ActivitySightseeing,
	"tour":        response_models.ActivitySightseeing,
	"culture":     response_models.ActivitySightseeing,
	"visit":       response_models.ActivitySightseeing,

	"meal":       response_models.ActivityMeal,
	"food":       response_models.ActivityMeal,
	"restaurant": response_models.ActivityMeal,
	"dining":     response_models.ActivityMeal,
	"cafe":       response_models.ActivityMeal,
	"breakfast":  response_models.ActivityMeal,
	"lunch":      response_models.ActivityMeal,
	"dinner":     response_models.ActivityMeal,

	"accommodation": response_models.ActivityAccommodation,
	"hotel":         response_models.ActivityAccommodation,
	"hostel":        response_models.ActivityAccommodation,
	"lodging":       response_models.ActivityAccommodation,
	"check in":      response_models.ActivityAccommodation,

	"transportation": response_models.ActivityTransportation,
	"transport":      response_models.ActivityTransportation,
	"transfer":       response_models.ActivityTransportation,
	"flight":         response_models.ActivityTransportation,
	"train":          response_models.ActivityTransportation,
	"bus":            response_models.ActivityTransportation,
	"taxi":           response_models.ActivityTransportation,
	"ferry":          response_models.ActivityTransportation,

	"free":      response_models.ActivityFree,
	"free time": response_models.ActivityFree,
	"leisure":   response_models.ActivityFree,
	"rest":      response_models.ActivityFree,

	"other": response_models.ActivityOther,
}

// NormalizeActivityType maps free-text activity types onto the closed
// vocabulary, case-insensitively. Unknown values become "other".
func NormalizeActivityType(s string) response_models.ActivityType {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if t, ok := activityTypes[key]; ok {
		return t
	}
	return response_models.ActivityOther
}

// NormalizeTime extracts a leading HH:MM token, honouring a trailing am/pm.
// Anything without a valid leading clock time becomes 09:00.
func NormalizeTime(s string) string {
	m := leadingClock.FindStringSubmatch(s)
	if m == nil {
		return defaultActivityTime
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	switch strings.ToLower(m[3]) {
	case "p":
		if hour < 12 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return defaultActivityTime
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ShapeError describes why a payload is not a usable itinerary.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

func shapeErr(path, format string, args ...any) error {
	return &ShapeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ParsePlan decodes model output into a normalized PlanContent. It returns
// an error for anything that is not JSON or does not have the itinerary
// shape; callers decide what to do with that.
func ParsePlan(raw string, cfg response_models.TravelConfig) (response_models.PlanContent, error) {
	payload := stripCodeFence(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return response_models.PlanContent{}, fmt.Errorf("invalid plan JSON: %w", err)
	}
	if dec.More() {
		return response_models.PlanContent{}, shapeErr("", "trailing data after JSON document")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return response_models.PlanContent{}, shapeErr("", "top level is not an object")
	}
	rawDays, ok := obj["days"].([]any)
	if !ok {
		return response_models.PlanContent{}, shapeErr("days", "missing or not an array")
	}
	if len(rawDays) == 0 {
		return response_models.PlanContent{}, shapeErr("days", "empty")
	}

	arrival, arrivalErr := cfg.Arrival()

	content := response_models.PlanContent{Days: make([]response_models.Day, 0, len(rawDays))}
	for i, rd := range rawDays {
		path := fmt.Sprintf("days[%d]", i)
		dayObj, ok := rd.(map[string]any)
		if !ok {
			return response_models.PlanContent{}, shapeErr(path, "not an object")
		}
		rawActs, ok := dayObj["activities"].([]any)
		if !ok {
			return response_models.PlanContent{}, shapeErr(path+".activities", "missing or not an array")
		}

		day := response_models.Day{
			DayNumber:  i + 1,
			Date:       isoDate(stringField(dayObj, "date")),
			Weather:    stringField(dayObj, "weather"),
			Summary:    stringField(dayObj, "summary"),
			Activities: make([]response_models.Activity, 0, len(rawActs)),
		}
		if day.Date == "" && arrivalErr == nil {
			day.Date = utils.AddDays(arrival, i)
		}

		for j, ra := range rawActs {
			act, err := parseActivity(fmt.Sprintf("%s.activities[%d]", path, j), ra)
			if err != nil {
				return response_models.PlanContent{}, err
			}
			day.Activities = append(day.Activities, act)
		}
		content.Days = append(content.Days, day)
	}
	return content, nil
}

func parseActivity(path string, raw any) (response_models.Activity, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return response_models.Activity{}, shapeErr(path, "not an object")
	}
	name := stringField(obj, "title")
	if name == "" {
		// Stored plans use "name"; accepting it keeps serialize -> parse stable.
		name = stringField(obj, "name")
	}
	if name == "" {
		return response_models.Activity{}, shapeErr(path+".title", "missing or empty")
	}

	act := response_models.Activity{
		Time:        NormalizeTime(stringField(obj, "time")),
		Name:        name,
		Description: stringField(obj, "description"),
		Type:        NormalizeActivityType(stringField(obj, "type")),
		Location:    stringField(obj, "location"),
		Price:       priceField(obj["price"]),
		Rating:      numberField(obj["rating"]),
		Tags:        stringsField(obj["tags"]),
	}
	return act, nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return raw
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func isoDate(s string) string {
	t, err := time.Parse(utils.ISODate, s)
	if err != nil {
		return ""
	}
	return t.Format(utils.ISODate)
}

func priceField(v any) string {
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p)
	case json.Number:
		return p.String()
	}
	return ""
}

func numberField(v any) *float64 {
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

func stringsField(v any) []string {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseOutcome is the result of resolving model output: either a parsed
// plan or the fallback plan together with the reason it was needed.
type ParseOutcome struct {
	Content response_models.PlanContent
	Source  db_models.PlanSource
	Reason  string
}

// PlanParser resolves model output into a plan. Resolve never fails: any
// parse or shape problem yields the fallback plan instead.
type PlanParser struct {
	logger *zap.Logger
}

func NewPlanParser(logger *zap.Logger) *PlanParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanParser{logger: logger.With(zap.String(utils.FieldComponent, "plan_parser"))}
}

func (p *PlanParser) Resolve(raw string, cfg response_models.TravelConfig) ParseOutcome {
	content, err := ParsePlan(raw, cfg)
	if err == nil {
		return ParseOutcome{Content: content, Source: db_models.PlanSourceModel}
	}

	reason := truncate(err.Error(), 255)
	p.logger.Warn("model output unusable, using fallback plan",
		zap.String(utils.FieldReason, reason),
		zap.Int(utils.FieldBytes, len(raw)))
	return ParseOutcome{
		Content: BuildFallbackPlan(cfg),
		Source:  db_models.PlanSourceFallback,
		Reason:  reason,
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
