package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jengzang/fitness-backend-go/internal/database"
	"github.com/jengzang/fitness-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// In-memory databases vanish per connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))
	return db
}

func insertActivity(t *testing.T, db *sql.DB, a *models.Activity) {
	t.Helper()
	repo := NewActivityRepository(db)
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Create(tx, a))
	require.NoError(t, tx.Commit())
}

func testActivity(uuid string, userID int64, activityType models.ActivityType, start time.Time) *models.Activity {
	return &models.Activity{
		UUID:           uuid,
		UserID:         userID,
		Name:           "Run",
		ActivityType:   activityType,
		Timezone:       "Europe/Oslo",
		StartTime:      start,
		ElapsedSeconds: 1800,
		DistanceMeters: 5000,
		AvgSpeed:       2.8,
		ElevationGain:  40,
	}
}

func TestActivityRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	a := testActivity("uuid-1", 1, models.TypeRun, start)
	insertActivity(t, db, a)
	require.NotZero(t, a.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(a.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "uuid-1", got.UUID)
		assert.Equal(t, models.TypeRun, got.ActivityType)
		assert.Equal(t, 5000.0, got.DistanceMeters)
	})

	t.Run("laps round-trip", func(t *testing.T) {
		withLaps := testActivity("uuid-laps", 1, models.TypeRun, start.Add(2*time.Hour))
		withLaps.Laps = []models.LapSplit{
			{Index: 0, StartTime: start, ElapsedSeconds: 600, DistanceMeters: 2000, AvgHeartRate: 140, AvgSpeed: 3.3},
			{Index: 1, StartTime: start.Add(10 * time.Minute), ElapsedSeconds: 620, DistanceMeters: 2000, AvgHeartRate: 148, AvgSpeed: 3.2},
		}
		insertActivity(t, db, withLaps)

		got, err := repo.GetByID(withLaps.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Laps, 2)
		assert.Equal(t, 1, got.Laps[1].Index)
		assert.Equal(t, 620.0, got.Laps[1].ElapsedSeconds)
		assert.True(t, got.Laps[0].StartTime.Equal(start))

		require.NoError(t, repo.Delete(withLaps.ID, 1))
	})

	t.Run("missing id yields nil", func(t *testing.T) {
		got, err := repo.GetByID(9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("filter by type", func(t *testing.T) {
		insertActivity(t, db, testActivity("uuid-2", 1, models.TypeRide, start.Add(time.Hour)))

		activities, total, err := repo.GetActivities(models.ActivityFilter{
			UserID:       1,
			ActivityType: int(models.TypeRide),
			Page:         1,
			PageSize:     10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, activities, 1)
		assert.Equal(t, "uuid-2", activities[0].UUID)
	})

	t.Run("other users are invisible", func(t *testing.T) {
		_, total, err := repo.GetActivities(models.ActivityFilter{UserID: 42, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("get by user and type", func(t *testing.T) {
		activities, err := repo.GetByUserAndType(1, models.TypeRun)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, a.ID, activities[0].ID)
	})

	t.Run("delete enforces ownership", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(a.ID, 42), sql.ErrNoRows)

		require.NoError(t, repo.Delete(a.ID, 1))
		got, err := repo.GetByID(a.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStreamRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStreamRepository(db)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	a := testActivity("uuid-s", 1, models.TypeRun, start)
	insertActivity(t, db, a)

	payloads := []models.StreamPayload{
		{Type: models.StreamHeartRate, Samples: []models.StreamSample{
			{Time: start, Value: 140},
			{Time: start.Add(time.Second), Value: 142},
		}},
		{Type: models.StreamLatLng, Coords: []models.CoordSample{
			{Time: start, Lat: 59.91, Lon: 10.75},
		}},
	}

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateAll(tx, a.ID, payloads))
	require.NoError(t, tx.Commit())

	t.Run("get all streams", func(t *testing.T) {
		streams, err := repo.GetByActivity(a.ID)
		require.NoError(t, err)
		require.Len(t, streams, 2)
		assert.Equal(t, models.StreamHeartRate, streams[0].Type)
		assert.Len(t, streams[0].Samples, 2)
		assert.Equal(t, 140.0, streams[0].Samples[0].Value)
		assert.Equal(t, models.StreamLatLng, streams[1].Type)
		assert.InDelta(t, 59.91, streams[1].Coords[0].Lat, 1e-9)
	})

	t.Run("get one channel", func(t *testing.T) {
		hr, err := repo.GetByActivityAndType(a.ID, models.StreamHeartRate)
		require.NoError(t, err)
		require.NotNil(t, hr)
		assert.Len(t, hr.Samples, 2)
	})

	t.Run("absent channel yields nil", func(t *testing.T) {
		power, err := repo.GetByActivityAndType(a.ID, models.StreamPower)
		require.NoError(t, err)
		assert.Nil(t, power)
	})
}

func TestSegmentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSegmentRepository(db)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	a := testActivity("uuid-m", 1, models.TypeRun, start)
	insertActivity(t, db, a)

	segment := &models.Segment{
		UserID:       1,
		Name:         "River loop",
		ActivityType: models.TypeRun,
		Gates: []models.Gate{
			{Index: 0, StartLat: 59.9095, StartLon: 10.751, EndLat: 59.9105, EndLon: 10.751},
			{Index: 1, StartLat: 59.9095, StartLon: 10.756, EndLat: 59.9105, EndLon: 10.756},
		},
	}

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Create(tx, segment))
	require.NoError(t, tx.Commit())
	require.NotZero(t, segment.ID)

	t.Run("get by id with gates", func(t *testing.T) {
		got, err := repo.GetByID(segment.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "River loop", got.Name)
		require.Len(t, got.Gates, 2)
		assert.Equal(t, 0, got.Gates[0].Index)
		assert.Equal(t, 1, got.Gates[1].Index)
	})

	t.Run("upsert matches is idempotent per lap", func(t *testing.T) {
		match := models.ActivitySegment{
			SegmentID:      segment.ID,
			ActivityID:     a.ID,
			Lap:            1,
			StartTime:      start.Add(10 * time.Second),
			ElapsedSeconds: 50,
			DistanceMeters: 310,
			Crossings: []models.GateCrossing{
				{GateIndex: 0, TraceIndex: 10, Time: start.Add(10 * time.Second)},
				{GateIndex: 1, TraceIndex: 60, Time: start.Add(60 * time.Second)},
			},
			Splits: []models.SubSegmentSplit{
				{FromGate: 0, ToGate: 1, ElapsedSeconds: 50, DistanceMeters: 310},
			},
		}
		require.NoError(t, repo.UpsertMatches([]models.ActivitySegment{match}))

		// Re-running with updated metrics must replace, not duplicate.
		match.ElapsedSeconds = 48
		require.NoError(t, repo.UpsertMatches([]models.ActivitySegment{match}))

		matches, err := repo.GetMatches(segment.ID)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 48.0, matches[0].ElapsedSeconds)
		require.Len(t, matches[0].Crossings, 2)
		assert.Equal(t, 60, matches[0].Crossings[1].TraceIndex)
		require.Len(t, matches[0].Splits, 1)
		assert.Equal(t, 310.0, matches[0].Splits[0].DistanceMeters)
	})

	t.Run("get by user and type", func(t *testing.T) {
		segments, err := repo.GetByUserAndType(1, models.TypeRun)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Len(t, segments[0].Gates, 2)

		none, err := repo.GetByUserAndType(1, models.TypeRide)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestGearRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGearRepository(db)

	t.Run("no default gear yields nil", func(t *testing.T) {
		id, err := repo.DefaultGear(1, models.TypeRun)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	shoes := &models.Gear{UserID: 1, Name: "Trail shoes", ActivityType: models.TypeRun, IsDefault: true}
	require.NoError(t, repo.Create(shoes))
	require.NoError(t, repo.Create(&models.Gear{UserID: 1, Name: "Road bike", ActivityType: models.TypeRide}))

	t.Run("default gear by type", func(t *testing.T) {
		id, err := repo.DefaultGear(1, models.TypeRun)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, shoes.ID, *id)

		// The bike is not flagged default.
		id, err = repo.DefaultGear(1, models.TypeRide)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("list by user", func(t *testing.T) {
		items, err := repo.GetByUser(1)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestStatsRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStatsRepository(db)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	run1 := testActivity("uuid-r1", 1, models.TypeRun, start)
	run2 := testActivity("uuid-r2", 1, models.TypeRun, start.AddDate(0, 0, 7))
	run2.DistanceMeters = 10000
	ride := testActivity("uuid-b1", 1, models.TypeRide, start.AddDate(0, 0, 1))
	insertActivity(t, db, run1)
	insertActivity(t, db, run2)
	insertActivity(t, db, ride)

	t.Run("type summaries", func(t *testing.T) {
		summaries, err := repo.GetTypeSummaries(1, 0, 0)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		assert.Equal(t, models.TypeRun, summaries[0].ActivityType)
		assert.Equal(t, int64(2), summaries[0].Count)
		assert.Equal(t, 15000.0, summaries[0].DistanceMeters)
		assert.Equal(t, models.TypeRide, summaries[1].ActivityType)
		assert.Equal(t, int64(1), summaries[1].Count)
	})

	t.Run("time-bounded summaries", func(t *testing.T) {
		summaries, err := repo.GetTypeSummaries(1, start.Unix(), start.AddDate(0, 0, 3).Unix())
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, int64(1), summaries[0].Count)
	})

	t.Run("personal records", func(t *testing.T) {
		records, err := repo.GetPersonalRecords(1, models.TypeRun)
		require.NoError(t, err)
		require.NotEmpty(t, records)

		byMetric := make(map[string]PersonalRecord)
		for _, r := range records {
			byMetric[r.Metric] = r
		}
		longest, ok := byMetric["longest_distance"]
		require.True(t, ok)
		assert.Equal(t, run2.ID, longest.ActivityID)
		assert.Equal(t, 10000.0, longest.Value)
	})
}
