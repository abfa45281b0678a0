package types

import "time"

// Нумерация дней недели в хранилище: 0 = понедельник ... 6 = воскресенье.
// time.Weekday использует 0 = воскресенье, поэтому на каждой границе нужна явная конвертация.

// ToSchemaWeekday переводит time.Weekday (Sunday=0) в нумерацию хранилища (Monday=0)
func ToSchemaWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// FromSchemaWeekday переводит нумерацию хранилища (Monday=0) обратно в time.Weekday
func FromSchemaWeekday(d int) time.Weekday {
	return time.Weekday((d + 1) % 7)
}

// IsValidSchemaWeekday проверяет, что значение попадает в диапазон 0..6
func IsValidSchemaWeekday(d int) bool {
	return d >= 0 && d <= 6
}
