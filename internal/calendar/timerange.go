package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
	ErrInvalidClock     = errors.New("invalid clock value, want HH:MM")
	ErrInvalidDate      = errors.New("invalid date, want YYYY-MM-DD")
)

const (
	ClockFormat = "15:04"
	DateFormat  = "2006-01-02"
)

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал; пустой или перевёрнутый интервал: ошибка.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps: полуоткрытые интервалы пересекаются, касание концами не считается.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("%s–%s", tr.Start.Format(time.RFC3339), tr.End.Format(time.RFC3339))
}

// SplitToTimeSlots разбивает интервал на подряд идущие слоты фиксированной длительности.
// "Хвост" меньшей длительности, чем slotDuration, отбрасывается.
func SplitToTimeSlots(tr TimeRange, slotDuration time.Duration) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return []TimeRange{}, nil
	}

	slots := make([]TimeRange, 0, int(tr.Duration()/slotDuration))
	for cur := tr.Start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// HasOverlap проверяет, пересекается ли newRange с existing, и возвращает конфликты.
func HasOverlap(newRange TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange
	for _, tr := range existing {
		if newRange.Overlaps(tr) {
			conflicts = append(conflicts, tr)
		}
	}
	return len(conflicts) > 0, conflicts
}

// SortRanges сортирует интервалы по началу.
func SortRanges(ranges []TimeRange) {
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start.Before(ranges[j].Start)
	})
}

// ===== Даты и время суток =====

// DateOnly отбрасывает время суток; результат всегда в UTC (опорные часы ядра).
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseClock переводит "HH:MM" в минуты от полуночи.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// EndOfDay: конец окна "24:00" в минутах.
const EndOfDay = 24 * 60

// ParseEndClock как ParseClock, но дополнительно принимает "24:00" для окна до полуночи.
func ParseEndClock(s string) (int, error) {
	if s == "24:00" {
		return EndOfDay, nil
	}
	return ParseClock(s)
}

// FormatClock переводит минуты от полуночи в "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// At возвращает момент времени: дата date плюс minutes от полуночи.
func At(date time.Time, minutes int) time.Time {
	return DateOnly(date).Add(time.Duration(minutes) * time.Minute)
}

// DayRange: сутки [00:00, 24:00) для даты.
func DayRange(date time.Time) TimeRange {
	day := DateOnly(date)
	return TimeRange{Start: day, End: day.AddDate(0, 0, 1)}
}
