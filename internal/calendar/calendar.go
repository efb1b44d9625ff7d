package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/christopherklint97/mealr/internal/dates"
	"github.com/christopherklint97/mealr/internal/store"
)

var ErrNoMeals = errors.New("no meals to export")

const productID = "-//mealr//meal plan//EN"

// uidNamespace scopes event UIDs so re-exports of the same cell update the
// existing calendar entry instead of duplicating it.
var uidNamespace = uuid.MustParse("5b0b7a1e-52d4-4c43-9a3c-2f1e8d6c4a10")

// slotTimes gives each meal slot a start hour and duration.
var slotTimes = map[string]struct {
	hour     int
	duration time.Duration
}{
	"Breakfast": {8, 30 * time.Minute},
	"Lunch":     {12, 45 * time.Minute},
	"Snack":     {15, 15 * time.Minute},
	"Dinner":    {18, time.Hour},
}

// Event represents a parsed calendar event.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// EventUID returns the stable UID for a meal-plan cell.
func EventUID(date, slot string) string {
	return uuid.NewSHA1(uidNamespace, []byte(date+"/"+slot)).String() + "@mealr"
}

// Export writes the entries as an iCalendar document. Times are placed in loc.
func Export(w io.Writer, entries []store.MealPlanEntry, loc *time.Location, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range entries {
		day, err := time.ParseInLocation(dates.Layout, e.Date, loc)
		if err != nil {
			return fmt.Errorf("exporting %s %s: %w", e.Date, e.Slot, err)
		}
		slot, ok := slotTimes[e.Slot]
		if !ok {
			continue
		}
		start := day.Add(time.Duration(slot.hour) * time.Hour)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(e.Date, e.Slot))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(slot.duration))
		event.Props.SetText(ical.PropSummary, summary(e))
		if desc := description(e); desc != "" {
			event.Props.SetText(ical.PropDescription, desc)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return ErrNoMeals
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func summary(e store.MealPlanEntry) string {
	switch {
	case e.RecipeName != "":
		return e.Slot + ": " + e.RecipeName
	case e.Notes != "":
		return e.Slot + ": " + e.Notes
	default:
		return e.Slot
	}
}

func description(e store.MealPlanEntry) string {
	var parts []string
	if e.RecipeID != nil {
		parts = append(parts, fmt.Sprintf("Servings: %d", e.Servings))
	}
	if e.RecipeName != "" && e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	return strings.Join(parts, "\n")
}

// Decode parses every event in an iCalendar stream. Malformed events are
// skipped.
func Decode(r io.Reader) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil {
				continue
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				continue
			}
			uid, _ := event.Props.Text(ical.PropUID)
			summary, _ := event.Props.Text(ical.PropSummary)
			desc, _ := event.Props.Text(ical.PropDescription)
			events = append(events, Event{
				UID:         uid,
				Summary:     summary,
				Description: desc,
				StartTime:   start,
				EndTime:     end,
			})
		}
	}

	return events, nil
}
