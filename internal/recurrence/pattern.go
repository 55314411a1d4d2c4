package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

// ErrInvalidPattern is returned for a recurrence pattern that can never generate.
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe returns the short label shown next to a recurring task.
func Describe(p *models.RecurrencePattern) string {
	if p == nil {
		return ""
	}
	switch p.Frequency {
	case models.FrequencyDaily:
		return "Daily"
	case models.FrequencyWeekdays:
		return "Weekdays (Mon-Fri)"
	case models.FrequencyWeekly:
		return "Weekly"
	case models.FrequencyMonthly:
		return "Monthly"
	case models.FrequencyYearly:
		return "Yearly"
	case models.FrequencyCustom:
		if len(p.DaysOfWeek) > 0 {
			names := make([]string, 0, len(p.DaysOfWeek))
			for _, d := range p.DaysOfWeek {
				if d >= 0 && d < len(dayNames) {
					names = append(names, dayNames[d])
				}
			}
			return "Custom (" + strings.Join(names, ", ") + ")"
		}
		if p.Interval > 0 {
			return fmt.Sprintf("Every %d days", p.Interval)
		}
		return "Custom"
	}
	return "Unknown"
}

// Validate checks that p names a known frequency and that a custom pattern
// carries either an interval or weekdays.
func Validate(p *models.RecurrencePattern) error {
	if p == nil {
		return fmt.Errorf("%w: missing pattern", ErrInvalidPattern)
	}
	switch p.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekdays, models.FrequencyWeekly,
		models.FrequencyMonthly, models.FrequencyYearly:
	case models.FrequencyCustom:
		if p.Interval < 0 {
			return fmt.Errorf("%w: interval must be positive", ErrInvalidPattern)
		}
		for _, d := range p.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidPattern, d)
			}
		}
		if p.Interval == 0 && len(p.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: custom needs an interval or days of week", ErrInvalidPattern)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidPattern, p.Frequency)
	}
	return nil
}

// ParseOptions is the loosely typed form of a pattern as typed on the command line.
type ParseOptions struct {
	Frequency string
	Interval  int
	Days      string // comma separated: "mon,wed" or "1,3"
	Until     string // YYYY-MM-DD
}

// Parse builds and validates a pattern from command-line style input.
func Parse(opts ParseOptions) (*models.RecurrencePattern, error) {
	p := &models.RecurrencePattern{
		Frequency: models.Frequency(strings.ToLower(strings.TrimSpace(opts.Frequency))),
		Interval:  opts.Interval,
	}

	if opts.Days != "" {
		days, err := parseDays(opts.Days)
		if err != nil {
			return nil, err
		}
		p.DaysOfWeek = days
	}

	if opts.Until != "" {
		end, err := dates.Parse(opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		p.EndDate = &end
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			days = append(days, n)
			continue
		}
		idx := -1
		for i, name := range dayNames {
			if strings.EqualFold(name, part) || strings.EqualFold(name, shortDay(part)) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidPattern, part)
		}
		days = append(days, idx)
	}
	return days, nil
}

func shortDay(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}
