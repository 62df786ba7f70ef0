package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/fitness-backend-go/internal/models"
)

func hrSamples(values ...float64) []models.StreamSample {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	samples := make([]models.StreamSample, len(values))
	for i, v := range values {
		samples[i] = models.StreamSample{Time: base.Add(time.Duration(i) * time.Second), Value: v}
	}
	return samples
}

func TestHeartRateZones(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		assert.Nil(t, HeartRateZones(nil, 200))
		assert.Nil(t, HeartRateZones(hrSamples(150), 0))
	})

	t.Run("samples below zone 1 are ignored", func(t *testing.T) {
		// With max 200 the zone 1 floor is 100 bpm.
		assert.Nil(t, HeartRateZones(hrSamples(60, 80, 99), 200))
	})

	t.Run("buckets by fraction of max", func(t *testing.T) {
		// max 200: zones start at 100/120/140/160/180.
		zones := HeartRateZones(hrSamples(110, 130, 130, 150, 170, 190, 190, 190), 200)
		require.Len(t, zones, 5)

		assert.Equal(t, 1, zones[0].Zone)
		assert.InDelta(t, 100, zones[0].MinBPM, 1e-9)
		assert.InDelta(t, 120, zones[0].MaxBPM, 1e-9)
		assert.InDelta(t, 12.5, zones[0].Percent, 1e-9)

		assert.InDelta(t, 25, zones[1].Percent, 1e-9)
		assert.InDelta(t, 12.5, zones[2].Percent, 1e-9)
		assert.InDelta(t, 12.5, zones[3].Percent, 1e-9)
		assert.InDelta(t, 37.5, zones[4].Percent, 1e-9)

		var total float64
		for _, z := range zones {
			total += z.Percent
		}
		assert.InDelta(t, 100, total, 1e-9)
	})
}
