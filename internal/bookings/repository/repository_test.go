package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"venuebook/internal/bookings/models"
	"venuebook/internal/remote"
	dErrors "venuebook/pkg/domain-errors"
	"venuebook/pkg/testutil"
)

const base = "companies/acme/sites/main/data/bookings"

type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	store *remote.MemoryStore
	now   time.Time
	repos *Set
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = remote.NewMemoryStore()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.repos = NewSet(s.store, WithClock(func() time.Time { return s.now }))
}

func (s *RepositorySuite) TestFetchAllDecodesChildren() {
	s.Require().NoError(s.store.Set(s.ctx, base+"/bookings", map[string]any{
		"b2": map[string]any{"date": "2024-01-01", "arrivalTime": "19:00", "guests": 4, "status": "Pending"},
		"b1": map[string]any{"date": "2024-01-01", "arrivalTime": "18:30", "guests": 2, "status": "Confirmed"},
	}))

	bookings, err := s.repos.Bookings.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(bookings, 2)
	s.Equal("b1", bookings[0].ID)
	s.Equal(2, bookings[0].Guests)
	s.Equal("b2", bookings[1].ID)
	s.Equal(models.StatusPending, bookings[1].Status)
}

func (s *RepositorySuite) TestFetchAllMissingCollectionIsEmpty() {
	bookings, err := s.repos.Bookings.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Empty(bookings)
}

func (s *RepositorySuite) TestFetchAllSkipsUndecodableEntries() {
	s.Require().NoError(s.store.Set(s.ctx, base+"/bookings", map[string]any{
		"good": map[string]any{"guests": 2},
		"bad":  map[string]any{"guests": "lots"},
	}))

	bookings, err := s.repos.Bookings.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(bookings, 1)
	s.Equal("good", bookings[0].ID)
}

func (s *RepositorySuite) TestTablesExcludeTypesAndSortByOrder() {
	s.Require().NoError(s.store.Set(s.ctx, base+"/tables", map[string]any{
		"t1":    map[string]any{"name": "Window", "capacity": 2, "order": 3},
		"t2":    map[string]any{"name": "Booth", "capacity": 4, "order": 1},
		"t3":    map[string]any{"name": "Bar", "capacity": 2},
		"types": map[string]any{"round": map[string]any{"name": "Round"}},
	}))

	tables, err := s.repos.Tables.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(tables, 3)
	s.Equal([]string{"t3", "t2", "t1"}, []string{tables[0].ID, tables[1].ID, tables[2].ID})
}

func (s *RepositorySuite) TestStatusesSortByOrder() {
	s.Require().NoError(s.store.Set(s.ctx, base+"/statuses", map[string]any{
		"a": map[string]any{"name": "Seated", "order": 2},
		"b": map[string]any{"name": "Pending", "order": 1},
	}))

	statuses, err := s.repos.Statuses.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Equal("Pending", statuses[0].Name)
	s.Equal("Seated", statuses[1].Name)
}

func (s *RepositorySuite) TestLegacyBookingTypes() {
	s.Run("object of strings", func() {
		s.Require().NoError(s.store.Set(s.ctx, base+"/bookingTypes", map[string]any{
			"dinner": "Dinner",
			"brunch": map[string]any{"name": "Brunch", "color": "#FF0000", "active": true},
		}))
		types, err := s.repos.BookingTypes.FetchAll(s.ctx, base)
		s.Require().NoError(err)
		s.Require().Len(types, 2)
		s.Equal("brunch", types[0].ID)
		s.Equal("#FF0000", types[0].Color)
		s.Equal("dinner", types[1].ID)
		s.Equal(models.DefaultTypeColor, types[1].Color)
		s.Equal(models.DefaultTypeDuration, types[1].DefaultDuration)
	})

	s.Run("array of strings", func() {
		s.Require().NoError(s.store.Set(s.ctx, base+"/bookingTypes", []string{"Lunch", "Dinner"}))
		types, err := s.repos.BookingTypes.FetchAll(s.ctx, base)
		s.Require().NoError(err)
		s.Require().Len(types, 2)
		s.Equal("0", types[0].ID)
		s.Equal("Lunch", types[0].Name)
		s.Equal("Dinner", types[1].Name)
	})
}

func (s *RepositorySuite) TestCreateAssignsIDAndStamps() {
	created, err := s.repos.Bookings.Create(s.ctx, base, models.Booking{Guests: 2, Status: models.StatusPending})
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(s.now, created.CreatedAt.Time)
	s.Equal(created.CreatedAt, created.UpdatedAt)

	stored, err := s.repos.Bookings.Get(s.ctx, base, created.ID)
	s.Require().NoError(err)
	s.Equal(2, stored.Guests)
	s.True(stored.CreatedAt.Equal(s.now))
}

func (s *RepositorySuite) TestCreateKeepsCallerID() {
	created, err := s.repos.Tags.Create(s.ctx, base, models.BookingTag{Record: models.Record{ID: "vip"}, Name: "VIP"})
	s.Require().NoError(err)
	s.Equal("vip", created.ID)

	tags, err := s.repos.Tags.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(tags, 1)
	s.Equal("VIP", tags[0].Name)
}

func (s *RepositorySuite) TestUpdate() {
	created, err := s.repos.Bookings.Create(s.ctx, base, models.Booking{Guests: 2, Status: models.StatusPending, Notes: "window"})
	s.Require().NoError(err)
	s.now = s.now.Add(time.Hour)

	stamp, err := s.repos.Bookings.Update(s.ctx, base, created.ID, models.Patch{"status": models.StatusConfirmed, "id": "hijack"})
	s.Require().NoError(err)
	s.Equal(s.now, stamp.Time)

	stored, err := s.repos.Bookings.Get(s.ctx, base, created.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusConfirmed, stored.Status)
	s.Equal("window", stored.Notes)
	s.Equal(created.ID, stored.ID)
	s.True(stored.UpdatedAt.After(stored.CreatedAt.Time))
}

func (s *RepositorySuite) TestUpdateMissingIsNotFound() {
	_, err := s.repos.Bookings.Update(s.ctx, base, "ghost", models.Patch{"guests": 3})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	snap, err := s.store.Get(s.ctx, base+"/bookings/ghost")
	s.Require().NoError(err)
	s.False(snap.Exists(), "a failed update must not create the entity")
}

func (s *RepositorySuite) TestUpdateRejectsMistypedPatch() {
	created, err := s.repos.Bookings.Create(s.ctx, base, models.Booking{Guests: 2, Status: models.StatusPending})
	s.Require().NoError(err)

	_, err = s.repos.Bookings.Update(s.ctx, base, created.ID, models.Patch{"guests": "many"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	bookings, err := s.repos.Bookings.FetchAll(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(bookings, 1, "a rejected patch leaves the record readable")
	s.Equal(2, bookings[0].Guests)
}

func (s *RepositorySuite) TestConcurrentRemoveSucceedsOnce() {
	created, err := s.repos.Customers.Create(s.ctx, base, models.Customer{FirstName: "Ada"})
	s.Require().NoError(err)

	result := testutil.RunConcurrent(20, func(int) error {
		return s.repos.Customers.Remove(s.ctx, base, created.ID)
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(19), result.NotFounds)
	s.Zero(result.Errors)
}

func (s *RepositorySuite) TestConcurrentUpdatesAllLand() {
	created, err := s.repos.Tables.Create(s.ctx, base, models.Table{Name: "T1", Capacity: 2})
	s.Require().NoError(err)

	result := testutil.RunConcurrent(10, func(idx int) error {
		_, err := s.repos.Tables.Update(s.ctx, base, created.ID, models.Patch{"capacity": idx + 1})
		return err
	})
	s.Equal(int32(10), result.Successes)

	stored, err := s.repos.Tables.Get(s.ctx, base, created.ID)
	s.Require().NoError(err)
	s.Equal("T1", stored.Name)
	s.InDelta(5.5, float64(stored.Capacity), 4.5)
}

func (s *RepositorySuite) TestRemove() {
	created, err := s.repos.Waitlist.Create(s.ctx, base, models.WaitlistEntry{CustomerName: "Ada", PartySize: 2})
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Waitlist.Remove(s.ctx, base, created.ID))
	_, err = s.repos.Waitlist.Get(s.ctx, base, created.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.repos.Waitlist.Remove(s.ctx, base, created.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RepositorySuite) TestRemoteFailuresAreTransient() {
	repos := NewSet(failingStore{})

	_, err := repos.Bookings.FetchAll(s.ctx, base)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	_, err = repos.Bookings.Create(s.ctx, base, models.Booking{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	_, _, err = repos.Settings.Fetch(s.ctx, base)
	s.True(dErrors.IsTransient(err))
}

func (s *RepositorySuite) TestSettings() {
	settings, found, err := s.repos.Settings.Fetch(s.ctx, base)
	s.Require().NoError(err)
	s.False(found)
	s.Equal(models.DefaultSettings(), settings)

	settings.OpeningTime = "11:00"
	settings.AutoConfirm = true
	saved, err := s.repos.Settings.Save(s.ctx, base, settings)
	s.Require().NoError(err)
	s.Equal(s.now, saved.UpdatedAt.Time)

	loaded, found, err := s.repos.Settings.Fetch(s.ctx, base)
	s.Require().NoError(err)
	s.True(found)
	s.Equal("11:00", loaded.OpeningTime)
	s.True(loaded.AutoConfirm)
}

var errOffline = errors.New("offline")

type failingStore struct{}

func (failingStore) Get(context.Context, string) (remote.Snapshot, error) {
	return remote.Snapshot{}, errOffline
}
func (failingStore) Set(context.Context, string, any) error               { return errOffline }
func (failingStore) Update(context.Context, string, map[string]any) error { return errOffline }
func (failingStore) Remove(context.Context, string) error                 { return errOffline }
func (failingStore) Push(context.Context, string) (string, error)         { return "", errOffline }
