package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultStep is the candidate-slot granularity. Candidates advance in
// fixed 15-minute steps regardless of service duration, so a 30-minute
// service can still start at :15 or :45 when the agenda allows it.
const DefaultStep = 15 * time.Minute

// Envelope is the daily business-hours window within which slots may be
// offered, expressed as wall-clock times in a fixed location.
type Envelope struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	Location    *time.Location
}

// ParseEnvelope builds an envelope from "HH:MM" open/close strings.
func ParseEnvelope(open, close string, loc *time.Location) (Envelope, error) {
	oh, om, err := parseWallClock(open)
	if err != nil {
		return Envelope{}, fmt.Errorf("schedule: invalid open time %q: %w", open, err)
	}
	ch, cm, err := parseWallClock(close)
	if err != nil {
		return Envelope{}, fmt.Errorf("schedule: invalid close time %q: %w", close, err)
	}
	if loc == nil {
		loc = time.Local
	}
	env := Envelope{OpenHour: oh, OpenMinute: om, CloseHour: ch, CloseMinute: cm, Location: loc}
	if !env.onDay(time.Now()).IsValid() {
		return Envelope{}, fmt.Errorf("schedule: close %q must be after open %q", close, open)
	}
	return env, nil
}

// DefaultEnvelope is the 09:00-18:00 working day.
func DefaultEnvelope(loc *time.Location) Envelope {
	if loc == nil {
		loc = time.Local
	}
	return Envelope{OpenHour: 9, CloseHour: 18, Location: loc}
}

func (e Envelope) onDay(day time.Time) Interval {
	y, m, d := day.In(e.Location).Date()
	return Interval{
		Start: time.Date(y, m, d, e.OpenHour, e.OpenMinute, 0, 0, e.Location),
		End:   time.Date(y, m, d, e.CloseHour, e.CloseMinute, 0, 0, e.Location),
	}
}

func parseWallClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute")
	}
	return hour, minute, nil
}

// Generator computes free appointment windows for a professional's day.
// It is a pure function of its inputs: no I/O, deterministic given now
// and the existing bookings.
type Generator struct {
	Envelope Envelope
	Step     time.Duration
}

// NewGenerator creates a generator over the given envelope. A step of
// zero falls back to DefaultStep.
func NewGenerator(env Envelope, step time.Duration) *Generator {
	if step <= 0 {
		step = DefaultStep
	}
	return &Generator{Envelope: env, Step: step}
}

// Slots returns the ordered candidate start times on the given day for a
// service of the given duration, skipping candidates that overlap any of
// the existing (non-cancelled) booking intervals or that start at or
// before now. The result is chronological and duplicate-free; an empty
// slice means a fully booked day.
func (g *Generator) Slots(day time.Time, duration time.Duration, existing []Interval, now time.Time) []time.Time {
	if duration <= 0 {
		return nil
	}
	window := g.Envelope.onDay(day)

	slots := make([]time.Time, 0, int(window.Duration()/g.Step)+1)
	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(g.Step) {
		candidate := NewInterval(cursor, duration)
		if !cursor.After(now) {
			continue
		}
		if conflicts(candidate, existing) {
			continue
		}
		slots = append(slots, cursor)
	}
	return slots
}

func conflicts(candidate Interval, existing []Interval) bool {
	for _, busy := range existing {
		if candidate.Overlaps(busy) {
			return true
		}
	}
	return false
}
