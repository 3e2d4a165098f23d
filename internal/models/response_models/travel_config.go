package response_models

import (
	"fmt"
	"time"

	"tripnotes/pkg/utils"
)

// MaxTripDays caps departure - arrival + 1.
const MaxTripDays = 365

// TravelConfig is the structured trip configuration carried by a project's
// configuration note.
type TravelConfig struct {
	Destination   string   `json:"destination" validate:"required,max=120"`
	ArrivalDate   string   `json:"arrival_date" validate:"required,datetime=2006-01-02"`
	DepartureDate string   `json:"departure_date" validate:"required,datetime=2006-01-02"`
	NumDays       int      `json:"num_days"`
	NumPeople     int      `json:"num_people" validate:"gte=0"`
	TravelStyle   string   `json:"travel_style,omitempty"`
	Budget        string   `json:"budget,omitempty"`
	Interests     []string `json:"interests,omitempty" validate:"max=10,dive,max=30"`
	Accommodation string   `json:"accommodation,omitempty"`
}

// Arrival returns the parsed arrival date.
func (c TravelConfig) Arrival() (time.Time, error) {
	return utils.ParseISODate(c.ArrivalDate)
}

// Normalize validates the record and recomputes NumDays as
// departure - arrival + 1.
func (c *TravelConfig) Normalize() error {
	if err := utils.Validator().Struct(c); err != nil {
		return err
	}
	arrival, err := utils.ParseISODate(c.ArrivalDate)
	if err != nil {
		return err
	}
	departure, err := utils.ParseISODate(c.DepartureDate)
	if err != nil {
		return err
	}
	if departure.Before(arrival) {
		return fmt.Errorf("departure %s is before arrival %s", c.DepartureDate, c.ArrivalDate)
	}
	c.NumDays = utils.DaysInclusive(arrival, departure)
	if c.NumDays > MaxTripDays {
		return fmt.Errorf("trip spans %d days, at most %d allowed", c.NumDays, MaxTripDays)
	}
	if c.NumPeople == 0 {
		c.NumPeople = 1
	}
	return nil
}
