package services

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/pkg/utils"
)

const wellFormedItinerary = `{
  "days": [
    {
      "date": "2024-05-01",
      "weather": "sunny",
      "activities": [
        {"title": "Colosseum", "type": "Attraction", "time": "9:30 am", "location": "Piazza del Colosseo", "description": "Guided tour", "rating": 4.8, "tags": ["history"]},
        {"title": "Trattoria", "type": "RESTAURANT", "time": "around 13:15", "location": "Trastevere", "description": "Lunch", "price": 25}
      ]
    },
    {
      "activities": [
        {"title": "Train to Florence", "type": "train", "time": "7:05 pm", "location": "Termini", "description": ""}
      ]
    },
    {
      "date": "not a date",
      "activities": []
    }
  ]
}`

func TestParsePlan_WellFormed(t *testing.T) {
	content, err := ParsePlan(wellFormedItinerary, romeConfig())
	require.NoError(t, err)
	require.Len(t, content.Days, 3)

	d1 := content.Days[0]
	assert.Equal(t, 1, d1.DayNumber)
	assert.Equal(t, "2024-05-01", d1.Date)
	assert.Equal(t, "sunny", d1.Weather)
	require.Len(t, d1.Activities, 2)

	colosseum := d1.Activities[0]
	assert.Equal(t, "Colosseum", colosseum.Name)
	assert.Equal(t, "09:30", colosseum.Time)
	assert.Equal(t, response_models.ActivitySightseeing, colosseum.Type)
	require.NotNil(t, colosseum.Rating)
	assert.InDelta(t, 4.8, *colosseum.Rating, 1e-9)
	assert.Equal(t, []string{"history"}, colosseum.Tags)

	lunch := d1.Activities[1]
	assert.Equal(t, response_models.ActivityMeal, lunch.Type)
	assert.Equal(t, "09:00", lunch.Time, "time without a leading clock defaults")
	assert.Equal(t, "25", lunch.Price)

	d2 := content.Days[1]
	assert.Equal(t, 2, d2.DayNumber)
	assert.Equal(t, "2024-05-02", d2.Date, "missing date is synthesized from arrival")
	assert.Equal(t, "19:05", d2.Activities[0].Time)
	assert.Equal(t, response_models.ActivityTransportation, d2.Activities[0].Type)

	d3 := content.Days[2]
	assert.Equal(t, "2024-05-03", d3.Date, "invalid date is synthesized from arrival")
	assert.NotNil(t, d3.Activities)
	assert.Empty(t, d3.Activities)
}

func TestParsePlan_CodeFence(t *testing.T) {
	raw := "```json\n{\"days\":[{\"activities\":[{\"title\":\"Pantheon\",\"time\":\"10:00\",\"type\":\"museum\"}]}]}\n```"
	content, err := ParsePlan(raw, romeConfig())
	require.NoError(t, err)
	require.Len(t, content.Days, 1)
	assert.Equal(t, "Pantheon", content.Days[0].Activities[0].Name)
	assert.Equal(t, response_models.ActivitySightseeing, content.Days[0].Activities[0].Type)
}

func TestParsePlan_ShapeViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"not json", "Sure! Here is your plan:", ""},
		{"truncated", `{"days":[{"activities":[{"title":"Col`, ""},
		{"array at top", `[1,2,3]`, ""},
		{"trailing data", `{"days":[]} {"days":[]}`, ""},
		{"missing days", `{"itinerary":[]}`, "days"},
		{"days not array", `{"days":"monday"}`, "days"},
		{"empty days", `{"days":[]}`, "days"},
		{"day not object", `{"days":[42]}`, "days[0]"},
		{"missing activities", `{"days":[{"date":"2024-05-01"}]}`, "days[0].activities"},
		{"activities null", `{"days":[{"activities":null}]}`, "days[0].activities"},
		{"activity not object", `{"days":[{"activities":["lunch"]}]}`, "days[0].activities[0]"},
		{"missing title", `{"days":[{"activities":[{"time":"10:00"}]}]}`, "days[0].activities[0].title"},
		{"blank title", `{"days":[{"activities":[{"title":"   "}]}]}`, "days[0].activities[0].title"},
		{"title not string", `{"days":[{"activities":[{"title":7}]}]}`, "days[0].activities[0].title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.raw, romeConfig())
			require.Error(t, err)
			var shape *ShapeError
			if tt.path != "" {
				require.ErrorAs(t, err, &shape)
				assert.Equal(t, tt.path, shape.Path)
			}
		})
	}
}

func TestNormalizeActivityType(t *testing.T) {
	tests := map[string]response_models.ActivityType{
		"restaurant":     response_models.ActivityMeal,
		"Restaurant":     response_models.ActivityMeal,
		" MEAL ":         response_models.ActivityMeal,
		"hotel":          response_models.ActivityAccommodation,
		"transfer":       response_models.ActivityTransportation,
		"Flight":         response_models.ActivityTransportation,
		"free time":      response_models.ActivityFree,
		"free_time":      response_models.ActivityFree,
		"Free-Time":      response_models.ActivityFree,
		"sightseeing":    response_models.ActivitySightseeing,
		"transportation": response_models.ActivityTransportation,
		"other":          response_models.ActivityOther,
		"karaoke":        response_models.ActivityOther,
		"":               response_models.ActivityOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeActivityType(in), "input %q", in)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := map[string]string{
		"09:00":          "09:00",
		"9:00":           "09:00",
		" 14:30 - 16:00": "14:30",
		"2:15 pm":        "14:15",
		"2:15PM":         "14:15",
		"12:00 p.m.":     "12:00",
		"12:30 am":       "00:30",
		"11:45 a.m.":     "11:45",
		"23:59":          "23:59",
		"24:00":          "09:00",
		"10:75":          "09:00",
		"morning":        "09:00",
		"at 10:00":       "09:00",
		"":               "09:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTime(in), "input %q", in)
	}
}

func TestPlanParser_Resolve(t *testing.T) {
	p := NewPlanParser(nil)

	out := p.Resolve(wellFormedItinerary, romeConfig())
	assert.Equal(t, db_models.PlanSourceModel, out.Source)
	assert.Empty(t, out.Reason)
	assert.Len(t, out.Content.Days, 3)

	out = p.Resolve(`{"days":[{"date":"2024-05-01"}]}`, romeConfig())
	assert.Equal(t, db_models.PlanSourceFallback, out.Source)
	assert.Contains(t, out.Reason, "days[0].activities")
	assert.Equal(t, BuildFallbackPlan(romeConfig()), out.Content)
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func assertPlanInvariants(content response_models.PlanContent) error {
	if len(content.Days) == 0 {
		return fmt.Errorf("no days")
	}
	for i, d := range content.Days {
		if d.DayNumber != i+1 {
			return fmt.Errorf("day %d numbered %d", i, d.DayNumber)
		}
		if d.Activities == nil {
			return fmt.Errorf("day %d has nil activities", d.DayNumber)
		}
		for _, a := range d.Activities {
			if a.Name == "" {
				return fmt.Errorf("day %d has unnamed activity", d.DayNumber)
			}
			if !clockPattern.MatchString(a.Time) {
				return fmt.Errorf("day %d has bad time %q", d.DayNumber, a.Time)
			}
			if NormalizeActivityType(string(a.Type)) != a.Type {
				return fmt.Errorf("day %d has type %q outside the vocabulary", d.DayNumber, a.Type)
			}
		}
	}
	return nil
}

// propertyParameters keeps generated strings and slices small so the
// property suites stay fast.
func propertyParameters(minSuccessful int) *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	parameters.MaxSize = 12
	return parameters
}

func genActivity() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
		gen.Identifier(),
		gen.AlphaString(),
		gen.OneConstOf(
			response_models.ActivitySightseeing,
			response_models.ActivityMeal,
			response_models.ActivityAccommodation,
			response_models.ActivityTransportation,
			response_models.ActivityFree,
			response_models.ActivityOther,
		),
		gen.AlphaString(),
		gen.IntRange(0, 3).FlatMap(func(n interface{}) gopter.Gen {
			return gen.SliceOfN(n.(int), gen.Identifier())
		}, reflect.TypeOf([]string{})),
	).Map(func(v []interface{}) response_models.Activity {
		tags := v[6].([]string)
		if len(tags) == 0 {
			tags = nil
		}
		return response_models.Activity{
			Time:        fmt.Sprintf("%02d:%02d", v[0].(int), v[1].(int)),
			Name:        v[2].(string),
			Description: v[3].(string),
			Type:        v[4].(response_models.ActivityType),
			Location:    v[5].(string),
			Tags:        tags,
		}
	})
}

func genDay() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),
		gen.IntRange(0, 5).FlatMap(func(n interface{}) gopter.Gen {
			return gen.SliceOfN(n.(int), genActivity(), reflect.TypeOf(response_models.Activity{}))
		}, reflect.TypeOf([]response_models.Activity{})),
	).Map(func(v []interface{}) response_models.Day {
		acts := v[1].([]response_models.Activity)
		if acts == nil {
			acts = []response_models.Activity{}
		}
		return response_models.Day{Weather: v[0].(string), Activities: acts}
	})
}

func genPlanContent() gopter.Gen {
	return gen.IntRange(1, 6).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), genDay(), reflect.TypeOf(response_models.Day{}))
	}, reflect.TypeOf([]response_models.Day{})).Map(func(days []response_models.Day) response_models.PlanContent {
		arrival, _ := utils.ParseISODate("2024-02-27")
		for i := range days {
			days[i].DayNumber = i + 1
			days[i].Date = utils.AddDays(arrival, i)
		}
		return response_models.PlanContent{Days: days}
	})
}

func TestParsePlan_RoundTrip(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters(100))

	properties.Property("serialize then parse yields the same plan", prop.ForAll(
		func(content response_models.PlanContent) bool {
			raw, err := json.Marshal(content)
			if err != nil {
				return false
			}
			parsed, err := ParsePlan(string(raw), romeConfig())
			if err != nil {
				t.Logf("parse failed: %v", err)
				return false
			}
			return reflect.DeepEqual(content, parsed)
		},
		genPlanContent(),
	))

	properties.TestingRun(t)
}

func TestPlanParser_ResolveIsTotal(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters(50))
	p := NewPlanParser(nil)

	properties.Property("any input resolves to a valid plan", prop.ForAll(
		func(raw string) bool {
			out := p.Resolve(raw, romeConfig())
			if err := assertPlanInvariants(out.Content); err != nil {
				t.Logf("invariant violated: %v", err)
				return false
			}
			return out.Source == db_models.PlanSourceModel || len(out.Content.Days) == 3
		},
		gen.OneGenOf(
			gen.AnyString(),
			gen.OneConstOf(
				`{"days":[{"activities":[{"title":"x"}]}]}`,
				`{"days":[{"date":"2024-05-01"}]}`,
				`{"days":null}`,
				`{"days":[{"activities":[{"title":"x","time":"25:99","type":42}]}]}`,
				"```\n{\"days\":[{\"activities\":[]}]}\n```",
			),
		),
	))

	properties.TestingRun(t)
}
