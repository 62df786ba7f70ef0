package decoder

import (
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/fitness-backend-go/internal/metrics"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/spatial"
	"github.com/jengzang/fitness-backend-go/internal/timezone"
)

// GearLookup resolves a user's default gear for an activity type. A nil
// result means no default gear; errors are treated the same way.
type GearLookup interface {
	DefaultGear(userID int64, activityType models.ActivityType) (*int64, error)
}

// AssembleOptions carries the caller-side context for building an activity.
type AssembleOptions struct {
	UserID          int64
	Visibility      int
	DefaultTimezone string
	Gear            GearLookup
}

// Assemble turns one session bundle into a normalized activity plus one
// stream payload per channel that actually has samples. Empty channels are
// never emitted.
func Assemble(bundle SessionBundle, opts AssembleOptions) (*models.Activity, []models.StreamPayload) {
	sess := bundle.Session
	code := models.ClassifyActivityType(sess.SportName)

	name := sess.Name
	if name == "" {
		name = models.ActivityTypeName(code)
	}

	activity := &models.Activity{
		UUID:            uuid.NewString(),
		UserID:          opts.UserID,
		Name:            name,
		ActivityType:    code,
		Visibility:      opts.Visibility,
		Timezone:        resolveTimezone(bundle, code, opts.DefaultTimezone),
		StartTime:       sess.StartTime,
		ElapsedSeconds:  sess.ElapsedSeconds,
		TimerSeconds:    sess.TimerSeconds,
		DistanceMeters:  sess.DistanceMeters,
		Calories:        sess.Calories,
		AvgHeartRate:    sess.AvgHeartRate,
		MaxHeartRate:    sess.MaxHeartRate,
		AvgCadence:      sess.AvgCadence,
		MaxCadence:      sess.MaxCadence,
		AvgPower:        sess.AvgPower,
		MaxPower:        sess.MaxPower,
		NormalizedPower: sess.NormalizedPower,
		AvgSpeed:        sess.AvgSpeed,
		MaxSpeed:        sess.MaxSpeed,
		ElevationGain:   sess.ElevationGain,
		ElevationLoss:   sess.ElevationLoss,
		StartLat:        sess.StartLat,
		StartLon:        sess.StartLon,
		City:            sess.City,
		Town:            sess.Town,
		Country:         sess.Country,
		Feeling:         sess.Feeling,
		RPE:             sess.RPE,
		Laps:            sess.Laps,
		CreatedAt:       time.Now().UTC(),
	}

	fillDerivedMetrics(activity, bundle)

	if opts.Gear != nil {
		// Missing default gear is a feature absence, not an error.
		if gearID, err := opts.Gear.DefaultGear(opts.UserID, code); err == nil && gearID != nil {
			activity.GearID = gearID
		}
	}

	return activity, buildStreams(bundle)
}

// resolveTimezone picks the activity timezone: GPS lookup first, then the
// decoded UTC offset, then the process default. Virtual activities skip the
// GPS path since their coordinates carry no geographic meaning.
func resolveTimezone(bundle SessionBundle, code models.ActivityType, fallback string) string {
	virtual := code == models.TypeVirtualRun || code == models.TypeVirtualRide

	if !virtual && bundle.Position.Present() {
		first := bundle.Position.Coords[0]
		if name, err := timezone.AtCoordinates(first.Lat, first.Lon); err == nil {
			return name
		}
	}
	if off := bundle.Session.UTCOffsetSeconds; off != nil {
		if name, err := timezone.FromUTCOffset(*off, bundle.Session.StartTime); err == nil {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "UTC"
}

// fillDerivedMetrics computes every summary value the source file did not
// provide, from the waypoint channels.
func fillDerivedMetrics(a *models.Activity, bundle SessionBundle) {
	if a.DistanceMeters == 0 && bundle.Position.Present() {
		points := make([]spatial.Point, len(bundle.Position.Coords))
		for i, c := range bundle.Position.Coords {
			points[i] = spatial.Point{Lat: c.Lat, Lon: c.Lon}
		}
		a.DistanceMeters = spatial.PathLength(points)
	}

	end := a.StartTime.Add(time.Duration(a.ElapsedSeconds * float64(time.Second)))
	a.PaceSecPerM = metrics.Pace(a.DistanceMeters, a.StartTime, end)

	if a.ElevationGain == 0 && a.ElevationLoss == 0 && bundle.Elevation.Present() {
		a.ElevationGain, a.ElevationLoss = metrics.DefaultElevationGainLoss(bundle.Elevation.Values())
	}

	if a.AvgHeartRate == 0 && a.MaxHeartRate == 0 {
		a.AvgHeartRate, a.MaxHeartRate = metrics.MeanMax(bundle.HeartRate.Values())
	}
	if a.AvgCadence == 0 && a.MaxCadence == 0 {
		a.AvgCadence, a.MaxCadence = metrics.MeanMax(bundle.Cadence.Values())
	}
	if a.AvgPower == 0 && a.MaxPower == 0 {
		a.AvgPower, a.MaxPower = metrics.MeanMax(bundle.Power.Values())
	}
	if a.AvgSpeed == 0 && a.MaxSpeed == 0 {
		a.AvgSpeed, a.MaxSpeed = metrics.MeanMax(bundle.Velocity.Values())
	}
	if a.NormalizedPower == 0 {
		a.NormalizedPower = metrics.NormalizedPower(bundle.Power.Values())
	}
}

// buildStreams emits payloads in the fixed channel numbering 1-7.
func buildStreams(bundle SessionBundle) []models.StreamPayload {
	var streams []models.StreamPayload

	scalar := []struct {
		kind models.StreamType
		ch   *Channel
	}{
		{models.StreamHeartRate, &bundle.HeartRate},
		{models.StreamPower, &bundle.Power},
		{models.StreamCadence, &bundle.Cadence},
		{models.StreamElevation, &bundle.Elevation},
		{models.StreamVelocity, &bundle.Velocity},
		{models.StreamPace, &bundle.Pace},
	}
	for _, s := range scalar {
		if s.ch.Present() {
			streams = append(streams, models.StreamPayload{
				Type:    s.kind,
				Samples: s.ch.Samples,
			})
		}
	}
	if bundle.Position.Present() {
		streams = append(streams, models.StreamPayload{
			Type:   models.StreamLatLng,
			Coords: bundle.Position.Coords,
		})
	}
	return streams
}
