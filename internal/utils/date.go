package utils

import (
	"errors"
	"fmt"
	"time"
)

const clinicDateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

// ParseClinicDate парсит дату календаря в формате "2006-01-02"
func ParseClinicDate(str string) (time.Time, error) {
	parsed, err := time.Parse(clinicDateLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, str)
	}
	return parsed, nil
}

// Today - сегодняшняя дата в таймзоне клиники в формате календаря
func Today(location *time.Location) string {
	return time.Now().In(location).Format(clinicDateLayout)
}

func FormatClinicDate(t time.Time) string {
	return t.Format(clinicDateLayout)
}
