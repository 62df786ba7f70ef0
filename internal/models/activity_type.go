package models

import "strings"

// ActivityType is the integer classification code of an activity.
// The numbering is a stable external contract: persisted rows and API
// consumers depend on these exact values never being renumbered.
type ActivityType int

const (
	TypeRun              ActivityType = 1
	TypeTrailRun         ActivityType = 2
	TypeVirtualRun       ActivityType = 3
	TypeRide             ActivityType = 4
	TypeGravelRide       ActivityType = 5
	TypeMountainBikeRide ActivityType = 6
	TypeVirtualRide      ActivityType = 7
	TypeEBikeRide        ActivityType = 8
	TypeWalk             ActivityType = 9
	TypeWorkout          ActivityType = 10
	TypeHike             ActivityType = 11
	TypeSwim             ActivityType = 12
	TypeRowing           ActivityType = 13
	TypeKayaking         ActivityType = 14
	TypeSnowboard        ActivityType = 15
	TypeAlpineSki        ActivityType = 16
	TypeNordicSki        ActivityType = 17
	TypeGolf             ActivityType = 18
	TypeSoccer           ActivityType = 19
	TypeTennis           ActivityType = 20
	TypeYoga             ActivityType = 21
	TypeStrengthTraining ActivityType = 22
	TypeInlineSkate      ActivityType = 23
	TypeIceSkate         ActivityType = 24
	TypeStandUpPaddling  ActivityType = 25
	TypeSurfing          ActivityType = 26
	TypeSailing          ActivityType = 27
	TypeSkateboard       ActivityType = 28
	TypeRockClimbing     ActivityType = 29
)

// activityTypeNames maps each code to its display name.
var activityTypeNames = map[ActivityType]string{
	TypeRun:              "Run",
	TypeTrailRun:         "Trail run",
	TypeVirtualRun:       "Virtual run",
	TypeRide:             "Ride",
	TypeGravelRide:       "Gravel ride",
	TypeMountainBikeRide: "Mountain bike ride",
	TypeVirtualRide:      "Virtual ride",
	TypeEBikeRide:        "E-bike ride",
	TypeWalk:             "Walk",
	TypeWorkout:          "Workout",
	TypeHike:             "Hike",
	TypeSwim:             "Swim",
	TypeRowing:           "Rowing",
	TypeKayaking:         "Kayaking",
	TypeSnowboard:        "Snowboard",
	TypeAlpineSki:        "Alpine ski",
	TypeNordicSki:        "Nordic ski",
	TypeGolf:             "Golf",
	TypeSoccer:           "Soccer",
	TypeTennis:           "Tennis",
	TypeYoga:             "Yoga",
	TypeStrengthTraining: "Strength training",
	TypeInlineSkate:      "Inline skate",
	TypeIceSkate:         "Ice skate",
	TypeStandUpPaddling:  "Stand up paddling",
	TypeSurfing:          "Surfing",
	TypeSailing:          "Sailing",
	TypeSkateboard:       "Skateboard",
	TypeRockClimbing:     "Rock climbing",
}

// activityTypeAliases maps lower-cased vendor and common names to a code.
// Covers FIT sport/sub-sport names, Strava activity types and a few loose
// spellings seen in uploads. Built once at init, read-only afterwards.
var activityTypeAliases = map[string]ActivityType{
	// running
	"run":               TypeRun,
	"running":           TypeRun,
	"road_running":      TypeRun,
	"street_running":    TypeRun,
	"track_running":     TypeRun,
	"treadmill":         TypeRun,
	"treadmill_running": TypeRun,
	"trail":             TypeTrailRun,
	"trailrun":          TypeTrailRun,
	"trail_run":         TypeTrailRun,
	"trail_running":     TypeTrailRun,
	"virtualrun":        TypeVirtualRun,
	"virtual_run":       TypeVirtualRun,
	"virtual_running":   TypeVirtualRun,

	// cycling
	"ride":              TypeRide,
	"bike":              TypeRide,
	"biking":            TypeRide,
	"cycling":           TypeRide,
	"road":              TypeRide,
	"road_cycling":      TypeRide,
	"road_biking":       TypeRide,
	"cyclocross":        TypeRide,
	"commuting":         TypeRide,
	"gravelride":        TypeGravelRide,
	"gravel_ride":       TypeGravelRide,
	"gravel_cycling":    TypeGravelRide,
	"mtb":               TypeMountainBikeRide,
	"mountain":          TypeMountainBikeRide,
	"mountain_biking":   TypeMountainBikeRide,
	"mountainbikeride":  TypeMountainBikeRide,
	"mountain_bike":     TypeMountainBikeRide,
	"virtualride":       TypeVirtualRide,
	"virtual_ride":      TypeVirtualRide,
	"virtual_activity":  TypeVirtualRide,
	"indoor_cycling":    TypeVirtualRide,
	"spin":              TypeVirtualRide,
	"ebikeride":         TypeEBikeRide,
	"e_bike_ride":       TypeEBikeRide,
	"e_biking":          TypeEBikeRide,
	"ebike":             TypeEBikeRide,
	"emountainbikeride": TypeEBikeRide,
	"e_bike_mountain":   TypeEBikeRide,

	// foot travel
	"walk":            TypeWalk,
	"walking":         TypeWalk,
	"casual_walking":  TypeWalk,
	"speed_walking":   TypeWalk,
	"hike":            TypeHike,
	"hiking":          TypeHike,
	"mountaineering":  TypeHike,

	// generic
	"workout":           TypeWorkout,
	"generic":           TypeWorkout,
	"training":          TypeWorkout,
	"cardio":            TypeWorkout,
	"fitness_equipment": TypeWorkout,
	"crossfit":          TypeWorkout,
	"elliptical":        TypeWorkout,
	"stairstepper":      TypeWorkout,
	"other":             TypeWorkout,

	// water
	"swim":                TypeSwim,
	"swimming":            TypeSwim,
	"lap_swimming":        TypeSwim,
	"open_water":          TypeSwim,
	"open_water_swimming": TypeSwim,
	"row":                 TypeRowing,
	"rowing":              TypeRowing,
	"indoor_rowing":       TypeRowing,
	"kayak":               TypeKayaking,
	"kayaking":            TypeKayaking,
	"canoeing":            TypeKayaking,
	"standuppaddling":     TypeStandUpPaddling,
	"stand_up_paddleboarding": TypeStandUpPaddling,
	"paddling":            TypeStandUpPaddling,
	"sup":                 TypeStandUpPaddling,
	"surf":                TypeSurfing,
	"surfing":             TypeSurfing,
	"windsurf":            TypeSurfing,
	"kitesurf":            TypeSurfing,
	"sail":                TypeSailing,
	"sailing":             TypeSailing,

	// winter
	"snowboard":                    TypeSnowboard,
	"snowboarding":                 TypeSnowboard,
	"alpineski":                    TypeAlpineSki,
	"alpine_ski":                   TypeAlpineSki,
	"alpine_skiing":                TypeAlpineSki,
	"downhill_skiing":              TypeAlpineSki,
	"resort_skiing_snowboarding":   TypeAlpineSki,
	"backcountryski":               TypeAlpineSki,
	"nordicski":                    TypeNordicSki,
	"rollerski":                    TypeNordicSki,
	"cross_country_skiing":         TypeNordicSki,
	"cross_country_classic_skiing": TypeNordicSki,
	"cross_country_skate_skiing":   TypeNordicSki,
	"snowshoe":                     TypeHike,

	// ball & court
	"golf":     TypeGolf,
	"soccer":   TypeSoccer,
	"football": TypeSoccer,
	"tennis":   TypeTennis,

	// gym & misc
	"yoga":              TypeYoga,
	"strength":          TypeStrengthTraining,
	"strength_training": TypeStrengthTraining,
	"weighttraining":    TypeStrengthTraining,
	"weight_training":   TypeStrengthTraining,
	"inlineskate":       TypeInlineSkate,
	"inline_skating":    TypeInlineSkate,
	"iceskate":          TypeIceSkate,
	"ice_skating":       TypeIceSkate,
	"skateboard":        TypeSkateboard,
	"skateboarding":     TypeSkateboard,
	"rockclimbing":      TypeRockClimbing,
	"rock_climbing":     TypeRockClimbing,
	"climbing":          TypeRockClimbing,
	"bouldering":        TypeRockClimbing,
}

// normalizedAliases holds the alias table with keys collapsed to bare
// lower-case letters, so "VirtualRide", "virtual_ride" and "Virtual Ride"
// all hit the same entry. Built once at init, read-only afterwards.
var normalizedAliases = func() map[string]ActivityType {
	m := make(map[string]ActivityType, len(activityTypeAliases))
	for alias, code := range activityTypeAliases {
		m[normalizeTypeName(alias)] = code
	}
	return m
}()

func normalizeTypeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case '_', '-', ' ':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClassifyActivityType resolves a free-text or vendor activity-type name to a
// code. Lookup is case-insensitive and ignores separators; unrecognized
// names map to TypeWorkout.
func ClassifyActivityType(name string) ActivityType {
	if code, ok := normalizedAliases[normalizeTypeName(name)]; ok {
		return code
	}
	return TypeWorkout
}

// ActivityTypeName returns the display name for a code. Unknown codes and
// TypeWorkout both yield "Workout"; every other known code gets a
// "<Name> workout" label.
func ActivityTypeName(code ActivityType) string {
	if code == TypeWorkout {
		return "Workout"
	}
	name, ok := activityTypeNames[code]
	if !ok {
		return "Workout"
	}
	return name + " workout"
}
