package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках, верхняя (исключённая) граница ToMinutes
	MinutesPerDay = 24 * 60

	timeLayout = "15:04"
)

var (
	// ErrInvalidTimeFormat возвращается, когда строку нельзя однозначно перевести во время суток
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда сложение выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в нормализованном формате "HH:MM" (без даты и часового пояса)
type TimeString string

// NewTimeString создаёт TimeString из time.Time (учитываются только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromMinutes создаёт TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// NewTimeStringFromString парсит "HH:MM" или "H:MM AM|PM" и нормализует в "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := ToMinutes(s)
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(minutes)
}

// ToMinutes переводит строку времени в минуты от полуночи, диапазон [0, 1440).
//
// Строка без "AM"/"PM" разбирается как 24-часовая ("09:00", "9:00", "13:30").
// Строка с суффиксом "AM"/"PM" разбирается как 12-часовая ("9:00 AM", "12:00 PM").
// Некорректный ввод всегда возвращает ErrInvalidTimeFormat.
func ToMinutes(s string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	if value == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidTimeFormat)
	}

	meridiem := ""
	switch {
	case strings.HasSuffix(value, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(value, "PM"):
		meridiem = "PM"
	case strings.Contains(value, "AM"), strings.Contains(value, "PM"):
		// Маркер не в конце строки: "9 AM:00", "AM 9:00"
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if meridiem != "" {
		value = strings.TrimSpace(strings.TrimSuffix(value, meridiem))
	}

	hours, minutes, err := splitClock(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if meridiem == "" {
		if hours > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		return hours*60 + minutes, nil
	}

	if hours < 1 || hours > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	// 12:xx AM - полночь, 12:xx PM - полдень
	if hours == 12 {
		hours = 0
	}
	if meridiem == "PM" {
		hours += 12
	}

	return hours*60 + minutes, nil
}

// splitClock разбирает "H:MM" / "HH:MM" без проверки верхней границы часов
func splitClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}

	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}

	hours, err := parseDigits(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minutes, err := parseDigits(parts[1])
	if err != nil {
		return 0, 0, err
	}

	if minutes > 59 {
		return 0, 0, ErrInvalidTimeFormat
	}

	return hours, minutes, nil
}

// parseDigits как strconv.Atoi, но без знаков и пробелов
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidTimeFormat
		}
	}
	return strconv.Atoi(s)
}

// IntervalsOverlap проверяет пересечение полуоткрытых интервалов [startA, endA) и [startB, endB).
// Интервалы, которые только касаются границей (endA == startB), НЕ пересекаются.
func IntervalsOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	return ToMinutes(string(t))
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// AddMinutes возвращает время, сдвинутое на n минут (в пределах суток)
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(minutes + n)
}

// IsBefore возвращает true, если t строго раньше other.
// Некорректные значения сравниваются как строки.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return string(t) < string(other)
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// Scan реализует sql.Scanner (колонки TEXT/VARCHAR и TIME)
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = TimeString(v)
	case []byte:
		*t = TimeString(string(v))
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
