package utils

import (
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// ParseDatePtr returns nil for an empty string.
func ParseDatePtr(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}

	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(dateLayout)
}

func FormatDatePtr(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return FormatDate(*d)
}
