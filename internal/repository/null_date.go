package repository

import (
	"fmt"
	"time"

	"github.com/javajoker/medlocator/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// NullDate scans a nullable DATE column. Drivers differ in whether they hand
// back time.Time or text, so both are accepted.
type NullDate struct {
	Time  time.Time
	Valid bool
}

func (d *NullDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = models.DateOf(v), true
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("repository: cannot scan %T into NullDate", src)
}

func (d *NullDate) parse(s string) error {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time, d.Valid = models.DateOf(t), true
			return nil
		}
	}
	return fmt.Errorf("repository: unrecognised date %q", s)
}
