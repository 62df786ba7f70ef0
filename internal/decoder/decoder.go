package decoder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jengzang/fitness-backend-go/internal/geocode"
)

// Decode failure sentinels. Malformed content always aborts the whole parse;
// no partial session is ever returned from a corrupt file.
var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrCorruptFile          = errors.New("cannot parse activity file")
)

// Geocoder resolves a coordinate to a place. Failures surface as
// geocode.ErrUnavailable and are treated as "no location data".
type Geocoder interface {
	Lookup(ctx context.Context, lat, lon float64) (*geocode.Location, error)
}

// Decoder parses uploaded activity files into session bundles.
type Decoder struct {
	geocoder Geocoder
}

// New creates a decoder. geocoder may be nil, in which case no location
// lookups are attempted.
func New(geocoder Geocoder) *Decoder {
	return &Decoder{geocoder: geocoder}
}

// DecodeFile parses raw file bytes into one bundle per contained session.
// The format is chosen by file extension; FIT files holding several
// concatenated sessions are split into discrete bundles.
func (d *Decoder) DecodeFile(ctx context.Context, filename string, data []byte) ([]SessionBundle, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fit":
		result, err := decodeFIT(data)
		if err != nil {
			return nil, err
		}
		return d.splitSessions(ctx, result), nil
	case ".gpx":
		bundle, err := d.decodeGPX(ctx, data)
		if err != nil {
			return nil, err
		}
		return []SessionBundle{*bundle}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(filename))
	}
}

// lookupLocation reverse-geocodes a point, swallowing unavailability.
func (d *Decoder) lookupLocation(ctx context.Context, lat, lon float64) *geocode.Location {
	if d.geocoder == nil {
		return nil
	}
	loc, err := d.geocoder.Lookup(ctx, lat, lon)
	if err != nil {
		// Geocoding failure is never fatal for a decode.
		return nil
	}
	return loc
}
