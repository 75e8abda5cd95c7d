package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

type EventCategory string

const (
	EventAccident EventCategory = "accident"
	EventMedical  EventCategory = "medical emergency"
)

type EventTarget string

const (
	TargetPlayer    EventTarget = "player"
	TargetDependent EventTarget = "dependent"
)

const (
	scheduledEventCount = 3
	eventWindowStart    = 20.0
	eventWindowEnd      = 115.0
)

// Cost tables are discrete draws keyed by category; medical emergencies
// are strictly more expensive than accidents.
var (
	accidentCostsDollars = []int64{2_000, 3_000, 4_000, 5_000}
	medicalCostsDollars  = []int64{6_000, 7_000, 8_000, 9_000, 10_000}
)

// LifeEvent is generated once at session start and fires exactly once.
// Occurred transitions false to true and never reverts;
// CoveredByInsurance is set in the same tick the event fires, only when
// a policy is active at that moment.
type LifeEvent struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Category           EventCategory `json:"category"`
	Target             EventTarget   `json:"target"`
	OccursAt           float64       `json:"occurs_at"` // real-seconds timestamp
	CostMicros         int64         `json:"cost_micros"`
	Occurred           bool          `json:"occurred"`
	CoveredByInsurance bool          `json:"covered_by_insurance"`
}

func eventCostMicros(rng *rand.Rand, category EventCategory) int64 {
	table := accidentCostsDollars
	if category == EventMedical {
		table = medicalCostsDollars
	}
	return table[rng.Intn(len(table))] * MicrosPerDollar
}

func eventTitle(category EventCategory) string {
	if category == EventMedical {
		return "Medical Emergency"
	}
	return "Accident"
}

// NewSchedule draws the session's life events. Trigger timestamps are
// independent uniform draws with no minimum spacing between them; two
// events may land arbitrarily close together.
func NewSchedule(rng *rand.Rand, hasDependents bool) []LifeEvent {
	targets := []EventTarget{TargetPlayer}
	if hasDependents {
		targets = append(targets, TargetDependent)
	}
	categories := []EventCategory{EventAccident, EventMedical}

	events := make([]LifeEvent, 0, scheduledEventCount)
	for i := 0; i < scheduledEventCount; i++ {
		category := categories[rng.Intn(len(categories))]
		events = append(events, LifeEvent{
			ID:         uuid.NewString(),
			Title:      eventTitle(category),
			Category:   category,
			Target:     targets[rng.Intn(len(targets))],
			OccursAt:   eventWindowStart + rng.Float64()*(eventWindowEnd-eventWindowStart),
			CostMicros: eventCostMicros(rng, category),
		})
	}
	return events
}

// advanceLifeEvents fires every due, not-yet-occurred event in place and
// returns the resulting transactions. insured reports whether an active
// policy can absorb an event firing right now; a covered event still
// produces a transaction, with a zero amount.
func advanceLifeEvents(events []LifeEvent, realTimeElapsed float64, insured func() bool) []Transaction {
	var out []Transaction
	for i := range events {
		if events[i].Occurred || events[i].OccursAt >= realTimeElapsed {
			continue
		}
		events[i].Occurred = true

		amount := events[i].CostMicros
		if insured() {
			events[i].CoveredByInsurance = true
			amount = 0
		}
		out = append(out, newTransaction(
			"Life Event: "+events[i].Title,
			CategoryLifeEvent,
			Debit,
			amount,
			fmt.Sprintf("A life event occurred; %s experienced a/an %s.",
				events[i].Target, strings.ToLower(string(events[i].Category))),
		))
	}
	return out
}
