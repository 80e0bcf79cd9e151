package config

import (
	"errors"
	"fmt"
	"os"
	"parcel-dispatch-service/internal/domain"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Fleet describes the trucks and drivers available for the day.
type Fleet struct {
	Trucks        int     `yaml:"trucks"`
	Drivers       int     `yaml:"drivers"`
	SpeedMPH      float64 `yaml:"speed_mph"`
	Capacity      int     `yaml:"capacity"`
	DepartAt      string  `yaml:"depart_at"`
	DelayedLaunch bool    `yaml:"delayed_launch"` // last truck leaves when the first held-back package becomes available
	Hub           string  `yaml:"hub"`
}

// Correction is the address a "wrong address" package is redirected to.
type Correction struct {
	PackageID int    `yaml:"package_id"`
	At        string `yaml:"at"`
	Street    string `yaml:"street"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	Zip       string `yaml:"zip"`
}

// Config is the root of the fleet YAML file.
type Config struct {
	Fleet         Fleet        `yaml:"fleet"`
	StoreCapacity int          `yaml:"store_capacity"`
	CorrectionAt  string       `yaml:"correction_at"` // default time for corrections without one
	Corrections   []Correction `yaml:"corrections"`
}

func Default() Config {
	return Config{
		Fleet: Fleet{
			Trucks:        3,
			Drivers:       2,
			SpeedMPH:      18,
			Capacity:      16,
			DepartAt:      "8:00 AM",
			DelayedLaunch: true,
			Hub:           "4001 South 700 East",
		},
		StoreCapacity: 40,
		CorrectionAt:  "10:20 AM",
		Corrections: []Correction{
			{
				PackageID: 9,
				Street:    "410 S State St",
				City:      "Salt Lake City",
				State:     "UT",
				Zip:       "84111",
			},
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Fleet.Trucks < 1 {
		errs = append(errs, fmt.Errorf("fleet.trucks must be positive, got %d", c.Fleet.Trucks))
	}
	if c.Fleet.Drivers < 1 {
		errs = append(errs, fmt.Errorf("fleet.drivers must be positive, got %d", c.Fleet.Drivers))
	}
	if c.Fleet.SpeedMPH <= 0 {
		errs = append(errs, fmt.Errorf("fleet.speed_mph must be positive, got %v", c.Fleet.SpeedMPH))
	}
	if c.Fleet.Capacity < 1 {
		errs = append(errs, fmt.Errorf("fleet.capacity must be positive, got %d", c.Fleet.Capacity))
	}
	if strings.TrimSpace(c.Fleet.Hub) == "" {
		errs = append(errs, errors.New("fleet.hub is required"))
	}
	if _, err := domain.ParseClock(c.Fleet.DepartAt); err != nil {
		errs = append(errs, fmt.Errorf("fleet.depart_at: %w", err))
	}
	if _, err := domain.ParseClock(c.CorrectionAt); err != nil {
		errs = append(errs, fmt.Errorf("correction_at: %w", err))
	}
	for i, cr := range c.Corrections {
		if cr.PackageID <= 0 || strings.TrimSpace(cr.Street) == "" {
			errs = append(errs, fmt.Errorf("corrections[%d]: package_id and street are required", i))
		}
		if cr.At != "" {
			if _, err := domain.ParseClock(cr.At); err != nil {
				errs = append(errs, fmt.Errorf("corrections[%d].at: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (c Config) DepartAt() time.Duration {
	d, _ := domain.ParseClock(c.Fleet.DepartAt)
	return d
}

// CorrectionFor returns the corrected address and the time it becomes known.
func (c Config) CorrectionFor(packageID int) (domain.Address, time.Duration, bool) {
	for _, cr := range c.Corrections {
		if cr.PackageID != packageID {
			continue
		}
		at := c.CorrectionAt
		if cr.At != "" {
			at = cr.At
		}
		d, _ := domain.ParseClock(at)
		return domain.Address{Street: cr.Street, City: cr.City, State: cr.State, Zip: cr.Zip}, d, true
	}
	return domain.Address{}, 0, false
}
