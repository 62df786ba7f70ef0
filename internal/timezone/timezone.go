// Package timezone resolves IANA zone names for activities, either from a
// GPS fix or from a raw UTC offset decoded out of a FIT file.
package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

var (
	finderOnce sync.Once
	finder     tzf.F
	finderErr  error
)

// AtCoordinates returns the IANA zone name containing the given point.
func AtCoordinates(lat, lon float64) (string, error) {
	finderOnce.Do(func() {
		finder, finderErr = tzf.NewDefaultFinder()
	})
	if finderErr != nil {
		return "", fmt.Errorf("failed to load timezone index: %w", finderErr)
	}

	name := finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no timezone found for %.5f,%.5f", lat, lon)
	}
	return name, nil
}

// FromUTCOffset finds a named zone whose UTC offset at the reference time
// equals offsetSeconds. Several zones share any given offset; candidates are
// tried in lexical name order so the result is deterministic.
func FromUTCOffset(offsetSeconds int, ref time.Time) (string, error) {
	if ref.IsZero() {
		ref = time.Now()
	}
	for _, name := range offsetCandidateZones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		if _, off := ref.In(loc).Zone(); off == offsetSeconds {
			return name, nil
		}
	}
	return "", fmt.Errorf("no timezone with UTC offset %ds", offsetSeconds)
}

// offsetCandidateZones is the lexically-sorted candidate set for
// offset-based reverse lookup. One or more representative zones per standard
// offset, including the half- and quarter-hour zones.
var offsetCandidateZones = []string{
	"Africa/Cairo",
	"Africa/Johannesburg",
	"Africa/Lagos",
	"Africa/Nairobi",
	"America/Adak",
	"America/Anchorage",
	"America/Argentina/Buenos_Aires",
	"America/Caracas",
	"America/Chicago",
	"America/Denver",
	"America/Halifax",
	"America/Los_Angeles",
	"America/Mexico_City",
	"America/New_York",
	"America/Noronha",
	"America/Phoenix",
	"America/Sao_Paulo",
	"America/St_Johns",
	"Asia/Anadyr",
	"Asia/Bangkok",
	"Asia/Colombo",
	"Asia/Dhaka",
	"Asia/Dubai",
	"Asia/Hong_Kong",
	"Asia/Jakarta",
	"Asia/Kabul",
	"Asia/Karachi",
	"Asia/Kathmandu",
	"Asia/Kolkata",
	"Asia/Riyadh",
	"Asia/Seoul",
	"Asia/Shanghai",
	"Asia/Singapore",
	"Asia/Tashkent",
	"Asia/Tehran",
	"Asia/Tokyo",
	"Asia/Yangon",
	"Atlantic/Azores",
	"Atlantic/Cape_Verde",
	"Atlantic/South_Georgia",
	"Australia/Adelaide",
	"Australia/Brisbane",
	"Australia/Darwin",
	"Australia/Eucla",
	"Australia/Lord_Howe",
	"Australia/Perth",
	"Australia/Sydney",
	"Europe/Athens",
	"Europe/Berlin",
	"Europe/Helsinki",
	"Europe/Lisbon",
	"Europe/London",
	"Europe/Madrid",
	"Europe/Moscow",
	"Europe/Paris",
	"Pacific/Auckland",
	"Pacific/Chatham",
	"Pacific/Fiji",
	"Pacific/Guadalcanal",
	"Pacific/Honolulu",
	"Pacific/Kiritimati",
	"Pacific/Marquesas",
	"Pacific/Midway",
	"Pacific/Noumea",
	"Pacific/Pago_Pago",
	"Pacific/Tongatapu",
	"UTC",
}
