package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/notify"
	"venuebook/internal/bookings/paths"
	"venuebook/internal/bookings/service/mocks"
	"venuebook/internal/bookings/stats"
	bsync "venuebook/internal/bookings/sync"
	"venuebook/internal/remote"
	dErrors "venuebook/pkg/domain-errors"
	"venuebook/pkg/requestcontext"
	"venuebook/pkg/testutil"
)

// lockedBuffer collects log output written from several goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) count(s string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Count(b.buf.String(), s)
}

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	remote   *remote.MemoryStore
	sched    *bsync.ManualScheduler
	logs     *lockedBuffer
	now      time.Time
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithActorID(context.Background(), "user-1")
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.remote = remote.NewMemoryStore()
	s.sched = bsync.NewManualScheduler()
	s.logs = &lockedBuffer{}
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.service = New(s.remote,
		WithLogger(slog.New(slog.NewTextHandler(s.logs, nil))),
		WithNotifier(s.notifier),
		WithScheduler(s.sched),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) seed(t models.TenantContext, seg paths.Segment, id string, value any) {
	base := paths.Resolve(t)[0]
	s.Require().NoError(s.remote.Set(s.ctx, paths.Item(base, seg, id), value))
}

// selectAndSettle selects t and runs the debounced and background loads.
func (s *ServiceSuite) selectAndSettle(t models.TenantContext) {
	s.service.SelectTenant(t)
	s.sched.Fire()
	s.sched.RunIdle()
	s.service.Wait()
}

func (s *ServiceSuite) TestSelectionLoadsCollections() {
	s.seed(testutil.TenantSite, paths.Bookings, "b1", testutil.NewBookingBuilder().Build())
	s.seed(testutil.TenantSite, paths.Tables, "t1", testutil.NewTable("", "T1", 4, 1))
	s.seed(testutil.TenantSite, paths.Statuses, "s1", models.BookingStatus{Name: models.StatusConfirmed})
	s.seed(testutil.TenantSite, paths.BookingTypes, "bt1", "Dinner")

	s.selectAndSettle(testutil.TenantSite)

	st := s.service.State()
	s.True(st.Initialized)
	s.False(st.Loading)
	s.Equal(testutil.TenantSite, st.Tenant)
	s.Require().Len(st.Bookings, 1)
	s.Equal("b1", st.Bookings[0].ID)
	s.Require().Len(st.Tables, 1)
	s.Equal("t1", st.Tables[0].ID)
	s.Len(st.Statuses, 1)
	s.Require().Len(st.BookingTypes, 1)
	s.Equal("Dinner", st.BookingTypes[0].Name)
}

func (s *ServiceSuite) TestCreateBookingWritesStateAndNotifies() {
	s.selectAndSettle(testutil.TenantSite)

	var sent notify.Notification
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n notify.Notification) error {
			sent = n
			return nil
		})

	created, err := s.service.CreateBooking(s.ctx, testutil.NewBookingBuilder().WithGuests(4).Build())
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.True(created.CreatedAt.Equal(s.now))
	s.True(created.UpdatedAt.Equal(s.now))

	st := s.service.State()
	s.Require().Len(st.Bookings, 1)
	s.Equal(created.ID, st.Bookings[0].ID)

	s.Equal(notify.ActionCreated, sent.Action)
	s.Equal("user-1", sent.ActorID)
	s.Equal("acme", sent.CompanyID)
	s.Equal(created.ID, sent.Details["bookingId"])

	stored, err := s.remote.Get(s.ctx, paths.Item(paths.Primary(testutil.TenantSite), paths.Bookings, created.ID))
	s.Require().NoError(err)
	s.True(stored.Exists())
}

func (s *ServiceSuite) TestUpdateBookingStatusMergesLocally() {
	s.seed(testutil.TenantSite, paths.Bookings, "b1", testutil.NewBookingBuilder().Build())
	s.selectAndSettle(testutil.TenantSite)
	s.now = s.now.Add(time.Hour)

	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n notify.Notification) error {
			s.Equal(notify.ActionUpdated, n.Action)
			s.Equal(models.StatusSeated, n.Details["status"])
			return nil
		})

	s.Require().NoError(s.service.UpdateBookingStatus(s.ctx, "b1", models.StatusSeated))

	st := s.service.State()
	s.Require().Len(st.Bookings, 1)
	s.Equal(models.StatusSeated, st.Bookings[0].Status)
	s.Equal("Ada", st.Bookings[0].FirstName)
	s.True(st.Bookings[0].UpdatedAt.Equal(s.now))
}

func (s *ServiceSuite) TestDeleteMissingBookingIsNotFound() {
	s.selectAndSettle(testutil.TenantSite)

	err := s.service.DeleteBooking(s.ctx, "ghost")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteBooking() {
	s.seed(testutil.TenantSite, paths.Bookings, "b1", testutil.NewBookingBuilder().Build())
	s.selectAndSettle(testutil.TenantSite)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	s.Require().NoError(s.service.DeleteBooking(s.ctx, "b1"))
	s.Empty(s.service.State().Bookings)
}

func (s *ServiceSuite) TestNotifierFailureDoesNotFailWrite() {
	s.selectAndSettle(testutil.TenantSite)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("queue full"))

	_, err := s.service.CreateBooking(s.ctx, testutil.NewBookingBuilder().Build())
	s.Require().NoError(err)
	s.Equal(1, s.logs.count("notification not sent"))
}

func (s *ServiceSuite) TestWritesWithoutSiteWarnOnce() {
	s.selectAndSettle(models.TenantContext{CompanyID: "acme"})

	_, err := s.service.CreateBooking(s.ctx, testutil.NewBookingBuilder().Build())
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	err = s.service.Tables().Delete(s.ctx, "t1")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Equal(1, s.logs.count("write attempted without a selected site"))

	s.service.Reset()
	_, err = s.service.Tags().Create(s.ctx, models.BookingTag{Name: "vip"})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Equal(2, s.logs.count("write attempted without a selected site"), "reset re-arms the warning")
}

func (s *ServiceSuite) TestOnDemandLoadFallsBackToSite() {
	s.seed(testutil.TenantSite, paths.Customers, "c1", models.Customer{FirstName: "Grace"})
	s.selectAndSettle(testutil.TenantSubsite)

	customers, err := s.service.Customers().Load(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(customers, 1)
	s.Equal("Grace", customers[0].FirstName)
	s.Equal(customers, s.service.State().Customers)
}

func (s *ServiceSuite) TestLoadWithoutSiteIsEmpty() {
	tags, err := s.service.Tags().Load(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(tags)
}

func (s *ServiceSuite) TestWritesInvalidateCachedReads() {
	s.selectAndSettle(testutil.TenantSite)

	tables, err := s.service.Tables().Load(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(tables)

	_, err = s.service.Tables().Create(s.ctx, testutil.NewTable("t9", "Patio", 6, 3))
	s.Require().NoError(err)

	tables, err = s.service.Tables().Load(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(tables, 1)
	s.Equal("t9", tables[0].ID)
}

func (s *ServiceSuite) TestEntityUpdateAndDelete() {
	s.seed(testutil.TenantSite, paths.Waitlist, "w1", models.WaitlistEntry{CustomerName: "Alan", PartySize: 2})
	s.selectAndSettle(testutil.TenantSite)
	_, err := s.service.Waitlist().Load(s.ctx, false)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Waitlist().Update(s.ctx, "w1", models.Patch{"partySize": 5}))
	s.Equal(5, s.service.State().Waitlist[0].PartySize)

	s.Require().NoError(s.service.Waitlist().Delete(s.ctx, "w1"))
	s.Empty(s.service.State().Waitlist)

	err = s.service.Waitlist().Update(s.ctx, "w1", models.Patch{"partySize": 1})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSettingsRoundTrip() {
	s.selectAndSettle(testutil.TenantSite)

	loaded, err := s.service.LoadSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.DefaultSettings(), loaded)

	next := models.DefaultSettings()
	next.TimeSlotInterval = 15
	saved, err := s.service.SaveSettings(s.ctx, next)
	s.Require().NoError(err)
	s.True(saved.UpdatedAt.Equal(s.now))
	s.Equal(15, s.service.State().Settings.TimeSlotInterval)

	loaded, err = s.service.LoadSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(15, loaded.TimeSlotInterval)
}

func (s *ServiceSuite) TestStats() {
	b := testutil.NewBookingBuilder()
	s.seed(testutil.TenantSite, paths.Bookings, "b1", b.WithStatus(models.StatusConfirmed).WithGuests(4).Build())
	s.seed(testutil.TenantSite, paths.Bookings, "b2", b.WithStatus(models.StatusPending).WithGuests(2).Build())
	s.selectAndSettle(testutil.TenantSite)

	computed := s.service.RecalculateStats(&stats.Range{})
	s.Equal(2, computed.TotalBookings)
	s.Equal(6, computed.TotalCovers)
	s.Equal(computed, s.service.State().Stats)
	s.Len(s.service.BookingsOn("2024-01-01"), 2)
}

func (s *ServiceSuite) TestResetClearsState() {
	s.seed(testutil.TenantSite, paths.Bookings, "b1", testutil.NewBookingBuilder().Build())
	s.selectAndSettle(testutil.TenantSite)
	s.Require().Len(s.service.State().Bookings, 1)

	s.service.Reset()

	st := s.service.State()
	s.Empty(st.Bookings)
	s.False(st.Initialized)
	s.Equal(models.TenantContext{}, s.service.Tenant())
}

func (s *ServiceSuite) TestMistypedPatchLeavesBookingIntact() {
	s.selectAndSettle(testutil.TenantSite)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	created, err := s.service.CreateBooking(s.ctx, testutil.NewBookingBuilder().WithGuests(2).Build())
	s.Require().NoError(err)

	err = s.service.UpdateBooking(s.ctx, created.ID, models.Patch{"guests": "many"})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	bookings, err := s.service.LoadBookings(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(bookings, 1)
	s.Equal(2, bookings[0].Guests)
}

func (s *ServiceSuite) TestSwitchingCompanyDropsPreviousRecords() {
	s.selectAndSettle(testutil.TenantSite)
	_, err := s.service.Customers().Create(s.ctx, models.Customer{FirstName: "Ada"})
	s.Require().NoError(err)
	_, err = s.service.Waitlist().Create(s.ctx, models.WaitlistEntry{CustomerName: "Ada", PartySize: 2})
	s.Require().NoError(err)
	s.Require().Len(s.service.State().Customers, 1)

	other := models.TenantContext{CompanyID: "other", SiteID: "hq"}
	s.selectAndSettle(other)
	st := s.service.State()
	s.Equal(other, st.Tenant)
	s.Empty(st.Customers)
	s.Empty(st.Waitlist)

	s.selectAndSettle(testutil.TenantSite)
	_, err = s.service.Customers().Load(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(s.service.State().Customers, 1)

	s.selectAndSettle(models.TenantContext{CompanyID: "other"})
	st = s.service.State()
	s.True(st.Initialized)
	s.Empty(st.Customers)
	s.Empty(st.Waitlist)
}
