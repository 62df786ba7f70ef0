package metrics

import "github.com/jengzang/fitness-backend-go/internal/models"

// ZoneShare is the share of samples falling in one heart-rate zone.
type ZoneShare struct {
	Zone    int     `json:"zone"`
	MinBPM  float64 `json:"min_bpm"`
	MaxBPM  float64 `json:"max_bpm"`
	Percent float64 `json:"percent"`
}

// zone lower bounds as a fraction of max heart rate
var zoneBounds = [5]float64{0.5, 0.6, 0.7, 0.8, 0.9}

// HeartRateZones buckets heart-rate samples into the five classic zones
// (50/60/70/80/90% of max) and returns the percentage of samples per zone.
// Samples below zone 1 are ignored. Returns nil when maxHR is not positive
// or no samples are given.
func HeartRateZones(samples []models.StreamSample, maxHR float64) []ZoneShare {
	if maxHR <= 0 || len(samples) == 0 {
		return nil
	}

	var counts [5]int
	total := 0
	for _, s := range samples {
		for z := 4; z >= 0; z-- {
			if s.Value >= zoneBounds[z]*maxHR {
				counts[z]++
				total++
				break
			}
		}
	}
	if total == 0 {
		return nil
	}

	shares := make([]ZoneShare, 5)
	for z := 0; z < 5; z++ {
		upper := maxHR
		if z < 4 {
			upper = zoneBounds[z+1] * maxHR
		}
		shares[z] = ZoneShare{
			Zone:    z + 1,
			MinBPM:  zoneBounds[z] * maxHR,
			MaxBPM:  upper,
			Percent: float64(counts[z]) / float64(total) * 100,
		}
	}
	return shares
}
