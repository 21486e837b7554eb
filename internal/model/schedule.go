package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ClassSlot is a recurring weekly class definition, a template rather than a
// concrete occurrence.  Times are wall-clock HH:mm strings interpreted in
// the center's timezone; DayOfWeek runs 0 (Sunday) through 6.
//
// Fields:
//  ID          – primary key identifier.
//  CenterID    – owning center.
//  Name        – class name shown to members.
//  Description – optional free text.
//  DayOfWeek   – 0..6, Sunday first.
//  StartTime   – HH:mm wall-clock start.
//  EndTime     – HH:mm wall-clock end, strictly after StartTime.
//  Capacity    – maximum CONFIRMED reservations per occurrence, >= 1.
//  SpaceID     – optional physical space the class occupies.
//  IsActive    – soft enable flag.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type ClassSlot struct {
	ID          uint64    `json:"id"`
	CenterID    uint64    `json:"center_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Capacity    int       `json:"capacity"`
	SpaceID     *string   `json:"space_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SlotRules captures the deployment-specific constraints on class slots.
// The zero value is the permissive variant: any duration, any window, any
// capacity >= 1.  Stricter deployments fix the duration (e.g. exactly 60
// minutes), restrict slots to an operating window, or enumerate the allowed
// capacities.
type SlotRules struct {
	FixedDurationMin  int    // exact slot length in minutes; 0 disables the rule
	WindowStart       string // inclusive HH:mm lower bound; empty disables
	WindowEnd         string // inclusive HH:mm upper bound for the end time
	AllowedCapacities []int  // enumerated capacities; empty allows any >= 1
}

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseClock converts an HH:mm string to minutes since midnight.  It rejects
// strings that do not match the format or encode an impossible time.
func ParseClock(s string) (int, error) {
	if !hhmmRe.MatchString(s) {
		return 0, errors.New("invalid time format, expected HH:mm")
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, errors.New("invalid time format, expected HH:mm")
	}
	return h*60 + m, nil
}

// ValidateSlotTimes checks a start/end pair against the rules.  It is run on
// create and again on the merged values on update, so a partial patch can
// never produce an invalid slot.
func (r SlotRules) ValidateSlotTimes(startTime, endTime string) error {
	start, err := ParseClock(startTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return errors.New("end_time must be after start_time")
	}
	if r.FixedDurationMin > 0 && end-start != r.FixedDurationMin {
		return fmt.Errorf("slot duration must be exactly %d minutes", r.FixedDurationMin)
	}
	if r.WindowStart != "" && r.WindowEnd != "" {
		lo, err := ParseClock(r.WindowStart)
		if err != nil {
			return fmt.Errorf("invalid operating window: %w", err)
		}
		hi, err := ParseClock(r.WindowEnd)
		if err != nil {
			return fmt.Errorf("invalid operating window: %w", err)
		}
		if start < lo || end > hi {
			return fmt.Errorf("slot must fall inside the %s-%s operating window", r.WindowStart, r.WindowEnd)
		}
	}
	return nil
}

// ValidateSlotCapacity checks a capacity against the rules.
func (r SlotRules) ValidateSlotCapacity(capacity int) error {
	if capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if len(r.AllowedCapacities) == 0 {
		return nil
	}
	for _, c := range r.AllowedCapacities {
		if capacity == c {
			return nil
		}
	}
	return fmt.Errorf("capacity must be one of %v", r.AllowedCapacities)
}

// ValidateDayOfWeek checks the 0..6 range shared by every deployment.
func ValidateDayOfWeek(d int) error {
	if d < 0 || d > 6 {
		return errors.New("day_of_week must be between 0 and 6")
	}
	return nil
}
