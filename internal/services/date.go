// internal/services/date.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/javajoker/medlocator/internal/models"
)

// Date is a calendar date that travels as "YYYY-MM-DD" in JSON.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// Ptr returns the date at midnight UTC, or nil for a nil receiver.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := models.DateOf(d.Time)
	return &t
}
