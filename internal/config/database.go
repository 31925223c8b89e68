// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// ReadDSN is the connection string for the search read pool.
func (d *DatabaseConfig) ReadDSN() string {
	if d.ReadURL != "" {
		return d.ReadURL
	}
	return d.DSN()
}
