package normalizer

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

var ErrNilLocation = errors.New("nil location supplied")
var ErrEmptyZoneAbbreviation = errors.New("empty zone abbreviation supplied")

// Option defines a functional option for configuring a Normalizer.
type Option func(*Normalizer) error

// WithLocation sets the location timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) error {
		if loc == nil {
			return ErrNilLocation
		}

		n.location = loc

		return nil
	}
}

// WithLocationName sets the location by IANA name, e.g. "Asia/Shanghai".
// The empty name and "Local" select time.Local.
func WithLocationName(name string) Option {
	return func(n *Normalizer) error {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return err
		}

		n.location = loc

		return nil
	}
}

// WithZoneAbbreviation maps a zone abbreviation of textual timestamps to a location.
// Only abbreviations containing CST, GMT, or UTC reach the zoned format of the cascade.
func WithZoneAbbreviation(abbreviation string, loc *time.Location) Option {
	return func(n *Normalizer) error {
		if abbreviation == "" {
			return ErrEmptyZoneAbbreviation
		}

		if loc == nil {
			return ErrNilLocation
		}

		zones := make(map[string]*time.Location, len(n.zones)+1)
		for k, v := range n.zones {
			zones[k] = v
		}
		zones[strings.ToUpper(abbreviation)] = loc
		n.zones = zones

		return nil
	}
}

// WithLogger sets the logger for the Normalizer.
// Cascade outcomes are logged at debug level.
func WithLogger(logger docquery.Logger) Option {
	return func(n *Normalizer) error {
		n.logger = logger
		return nil
	}
}
