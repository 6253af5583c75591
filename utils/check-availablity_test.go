package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/db/dbtest"
	"github.com/meinhoongagan/ignite-call/models"
)

func useLocation(t *testing.T, loc *time.Location, now time.Time) {
	t.Helper()
	prevLoc, prevNow := Location, Now
	Location = loc
	Now = func() time.Time { return now }
	t.Cleanup(func() {
		Location, Now = prevLoc, prevNow
	})
}

func seedHost(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{Username: "jane", Name: "Jane Doe"}
	require.NoError(t, db.DB.Create(user).Error)

	intervals := []models.UserTimeInterval{
		{UserID: user.ID, WeekDay: models.Monday, StartTimeInMinutes: 480, EndTimeInMinutes: 720},
		{UserID: user.ID, WeekDay: models.Wednesday, StartTimeInMinutes: 600, EndTimeInMinutes: 720},
	}
	require.NoError(t, db.DB.Create(&intervals).Error)
	return user
}

func book(t *testing.T, userID string, slot time.Time) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Scheduling{
		UserID: userID,
		Date:   slot,
		Name:   "John Guest",
		Email:  "john@example.com",
	}).Error)
}

func TestComputeBlockedDatesFromDB(t *testing.T) {
	dbtest.UseTestDB(t)
	useLocation(t, brt, time.Date(2024, time.March, 1, 9, 0, 0, 0, brt))
	host := seedHost(t)

	book(t, host.ID, time.Date(2024, time.March, 13, 10, 0, 0, 0, brt))
	book(t, host.ID, time.Date(2024, time.March, 13, 11, 0, 0, 0, brt))
	book(t, host.ID, time.Date(2024, time.March, 18, 8, 0, 0, 0, brt))

	// another host's bookings never block jane's calendar
	other := &models.User{Username: "other", Name: "Other Host"}
	require.NoError(t, db.DB.Create(other).Error)
	book(t, other.ID, time.Date(2024, time.March, 20, 10, 0, 0, 0, brt))
	book(t, other.ID, time.Date(2024, time.March, 20, 11, 0, 0, 0, brt))

	result, err := ComputeBlockedDates(db.DB, host.ID, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 5, 6}, result.BlockedWeekDays)
	assert.Equal(t, []int{13}, result.BlockedDates)
}

func TestComputeAvailabilityFromDB(t *testing.T) {
	dbtest.UseTestDB(t)
	useLocation(t, brt, time.Date(2024, time.March, 10, 12, 0, 0, 0, brt))
	host := seedHost(t)
	book(t, host.ID, time.Date(2024, time.March, 11, 9, 0, 0, 0, brt))

	day, err := ParseDay("2024-03-11")
	require.NoError(t, err)
	got, err := ComputeAvailability(db.DB, host.ID, day)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10, 11}, got.PossibleTimes)
	assert.Equal(t, []int{8, 10, 11}, got.AvailableTimes)

	tuesday, err := ParseDay("2024-03-12")
	require.NoError(t, err)
	got, err = ComputeAvailability(db.DB, host.ID, tuesday)
	require.NoError(t, err)
	assert.Empty(t, got.PossibleTimes)
	assert.NotNil(t, got.AvailableTimes)
}

func TestCheckSlotAndInterval(t *testing.T) {
	dbtest.UseTestDB(t)
	useLocation(t, brt, time.Date(2024, time.March, 10, 12, 0, 0, 0, brt))
	host := seedHost(t)
	taken := time.Date(2024, time.March, 11, 9, 0, 0, 0, brt)
	book(t, host.ID, taken)

	free, err := CheckSlotAvailability(db.DB, host.ID, taken)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = CheckSlotAvailability(db.DB, host.ID, taken.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, free)

	within, err := CheckWithinAvailability(db.DB, host.ID, time.Date(2024, time.March, 11, 11, 0, 0, 0, brt))
	require.NoError(t, err)
	assert.True(t, within)

	within, err = CheckWithinAvailability(db.DB, host.ID, time.Date(2024, time.March, 11, 12, 0, 0, 0, brt))
	require.NoError(t, err)
	assert.False(t, within)

	within, err = CheckWithinAvailability(db.DB, host.ID, time.Date(2024, time.March, 12, 9, 0, 0, 0, brt))
	require.NoError(t, err)
	assert.False(t, within)
}

func TestStartOfHour(t *testing.T) {
	useLocation(t, brt, time.Now())

	got := StartOfHour(time.Date(2024, time.March, 11, 14, 45, 10, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.March, 11, 11, 0, 0, 0, brt), got)
	assert.True(t, got.Equal(time.Date(2024, time.March, 11, 14, 0, 0, 0, time.UTC)))
}
