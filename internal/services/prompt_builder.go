package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"tripnotes/internal/models/db_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/pkg/completion"
	"tripnotes/pkg/utils"
)

const itinerarySchemaName = "itinerary"

const plannerSystemPrompt = "You are an experienced travel planner. " +
	"You answer with a single JSON document and nothing else: no markdown, no comments, no prose."

// PromptBuilder turns a trip configuration and the project's notes into a
// completion request. It is a pure function of its inputs.
type PromptBuilder struct {
	MaxActivitiesPerDay   int
	DetailedDaysThreshold int
}

func NewPromptBuilder(maxActivitiesPerDay, detailedDaysThreshold int) *PromptBuilder {
	if maxActivitiesPerDay <= 0 {
		maxActivitiesPerDay = 4
	}
	if detailedDaysThreshold <= 0 {
		detailedDaysThreshold = 5
	}
	return &PromptBuilder{
		MaxActivitiesPerDay:   maxActivitiesPerDay,
		DetailedDaysThreshold: detailedDaysThreshold,
	}
}

// ItinerarySchema is the output shape requested from the model:
// { days: [ { date, activities: [ {title, type, time, location, description} ] } ] }
func ItinerarySchema() jsonschema.Definition {
	activity := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title":       {Type: jsonschema.String},
			"type":        {Type: jsonschema.String, Description: "sightseeing, meal, accommodation, transportation, free or other"},
			"time":        {Type: jsonschema.String, Description: "start time as HH:MM"},
			"location":    {Type: jsonschema.String},
			"description": {Type: jsonschema.String},
		},
		Required: []string{"title", "type", "time", "location", "description"},
	}
	day := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"date":       {Type: jsonschema.String, Description: "YYYY-MM-DD"},
			"activities": {Type: jsonschema.Array, Items: &activity},
		},
		Required: []string{"date", "activities"},
	}
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"days": {Type: jsonschema.Array, Items: &day},
		},
		Required: []string{"days"},
	}
}

// Build assembles the request. cfg is required; configContent is the
// configuration note's own free text and notes are the regular notes.
func (b *PromptBuilder) Build(cfg *response_models.TravelConfig, configContent string, notes []db_models.Note) (completion.Request, error) {
	if cfg == nil {
		return completion.Request{}, utils.ErrMissingConfiguration
	}

	var p strings.Builder

	fmt.Fprintf(&p, "Create a %d-day travel itinerary for %s.\n\n", cfg.NumDays, cfg.Destination)

	p.WriteString("TRIP\n")
	fmt.Fprintf(&p, "- Destination: %s\n", cfg.Destination)
	fmt.Fprintf(&p, "- Arrival: %s\n", cfg.ArrivalDate)
	fmt.Fprintf(&p, "- Departure: %s\n", cfg.DepartureDate)
	fmt.Fprintf(&p, "- Days: %d\n", cfg.NumDays)
	fmt.Fprintf(&p, "- Travellers: %d\n", cfg.NumPeople)
	writeOptional(&p, "Travel style", cfg.TravelStyle)
	writeOptional(&p, "Budget", cfg.Budget)
	if len(cfg.Interests) > 0 {
		fmt.Fprintf(&p, "- Interests: %s\n", strings.Join(cfg.Interests, ", "))
	}
	writeOptional(&p, "Accommodation", cfg.Accommodation)

	if trip := utils.StripMarkup(configContent); trip != "" {
		fmt.Fprintf(&p, "\nTRIP NOTES\n%s\n", trip)
	}

	if ordered := byPriority(notes); len(ordered) > 0 {
		p.WriteString("\nTRAVELLER NOTES (most important first)\n")
		for _, n := range ordered {
			content := utils.StripMarkup(n.Content)
			title := utils.StripMarkup(n.Title)
			switch {
			case title != "" && content != "":
				fmt.Fprintf(&p, "- [priority %d] %s: %s\n", n.Priority, title, content)
			case content != "":
				fmt.Fprintf(&p, "- [priority %d] %s\n", n.Priority, content)
			case title != "":
				fmt.Fprintf(&p, "- [priority %d] %s\n", n.Priority, title)
			}
		}
	}

	p.WriteString("\nRULES\n")
	fmt.Fprintf(&p, "1. Return exactly %d entries in \"days\", one per calendar day starting %s.\n", cfg.NumDays, cfg.ArrivalDate)
	fmt.Fprintf(&p, "2. Plan at most %d activities per day.\n", b.MaxActivitiesPerDay)
	p.WriteString("3. \"time\" is the start time as HH:MM (24h); \"date\" is YYYY-MM-DD.\n")
	p.WriteString("4. \"type\" is one of: sightseeing, meal, accommodation, transportation, free, other.\n")
	p.WriteString("5. Honour the traveller notes, higher priority first.\n")
	if cfg.NumDays > b.DetailedDaysThreshold {
		fmt.Fprintf(&p, "6. The trip is longer than %d days: give full detail only for days 1-%d; "+
			"for later days keep descriptions to one short sentence.\n", b.DetailedDaysThreshold, b.DetailedDaysThreshold)
	}
	p.WriteString("\nReturn JSON only, matching the schema.\n")

	return completion.Request{
		System:     plannerSystemPrompt,
		Prompt:     p.String(),
		SchemaName: itinerarySchemaName,
		Schema:     ItinerarySchema(),
	}, nil
}

func writeOptional(p *strings.Builder, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(p, "- %s: %s\n", label, value)
	}
}

// byPriority returns a copy of notes sorted by priority, highest first.
// Equal priorities keep their input order.
func byPriority(notes []db_models.Note) []db_models.Note {
	out := make([]db_models.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
