package booking

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/modules/hours"
	"scheduleandpay/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	if r != nil && args.Error(0) == nil {
		r.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReservationRepository) GetByReference(ctx context.Context, ref string) (*domain.Reservation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByDay(ctx context.Context, day domain.Day) ([]domain.Reservation, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ReservationConfirmed(ctx context.Context, r domain.Reservation, paymentURL string) {
	m.Called(ctx, r, paymentURL)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []domain.BookingKey
}

func (p *recordingPublisher) SlotBooked(key domain.BookingKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
}

type staticHours []domain.TimeLabel

func (h staticHours) Get() []domain.TimeLabel { return h }

const paymentLink = "https://venmo.com/heartsoulvolleyball"

var testHours = staticHours{"08:00 AM", "09:00 AM", "10:00 AM"}

func validRequest() ReserveRequest {
	return ReserveRequest{
		Name:  "Jordan Smith",
		Email: "jordan@example.com",
		Phone: "555-0100",
		Date:  "2024-06-10",
		Time:  "09:00 AM",
	}
}

func TestService_Reserve_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	notifier := new(MockNotifier)
	events := &recordingPublisher{}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Day.Key() == "2024-06-10" && r.Time == "09:00 AM" && r.Contact.Name == "Jordan Smith" && r.Reference != ""
	})).Return(nil)
	notifier.On("ReservationConfirmed", mock.Anything, mock.AnythingOfType("domain.Reservation"), paymentLink).Return()

	svc := NewService(repo, testHours, notifier, events, paymentLink)

	req := validRequest()
	req.Name = "  Jordan Smith "
	conf, err := svc.Reserve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-10 at 09:00 AM", conf.Slot)
	assert.Equal(t, paymentLink, conf.PaymentURL)
	assert.True(t, strings.HasPrefix(conf.PaymentQR, "data:image/png;base64,"))
	assert.Equal(t, int64(999), conf.Reservation.ID)
	assert.Len(t, conf.Reservation.Reference, 36)

	require.Len(t, events.keys, 1)
	assert.Equal(t, "2024-06-10 at 09:00 AM", events.keys[0].String())

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Reserve_InvalidDate(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	for _, date := range []string{"2024-13-01", "10/06/2024", "tomorrow"} {
		req := validRequest()
		req.Date = date

		_, err := svc.Reserve(context.Background(), req)

		assert.ErrorIs(t, err, ErrValidation, date)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Reserve_MissingContact(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	req := validRequest()
	req.Phone = "   "

	_, err := svc.Reserve(context.Background(), req)

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Reserve_UnknownTimeLabel(t *testing.T) {
	repo := new(MockReservationRepository)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	req := validRequest()
	req.Time = "11:00 PM"

	_, err := svc.Reserve(context.Background(), req)

	assert.ErrorIs(t, err, ErrUnknownTimeLabel)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Reserve_SlotTaken(t *testing.T) {
	repo := new(MockReservationRepository)
	notifier := new(MockNotifier)
	events := &recordingPublisher{}
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrSlotTaken)

	svc := NewService(repo, testHours, notifier, events, paymentLink)

	_, err := svc.Reserve(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrNotAvailable)
	notifier.AssertNotCalled(t, "ReservationConfirmed", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, events.keys)
}

func TestService_Reserve_StorageFailure(t *testing.T) {
	repo := new(MockReservationRepository)
	notifier := new(MockNotifier)
	storeErr := errors.New("disk full")
	repo.On("Create", mock.Anything, mock.Anything).Return(storeErr)

	svc := NewService(repo, testHours, notifier, nil, paymentLink)

	conf, err := svc.Reserve(context.Background(), validRequest())

	assert.Nil(t, conf)
	assert.ErrorIs(t, err, storeErr)
	notifier.AssertNotCalled(t, "ReservationConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Reserve_PastDayAccepted(t *testing.T) {
	repo := new(MockReservationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, testHours, nil, nil, paymentLink)
	svc.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	req := validRequest()
	req.Date = "2020-01-06"

	conf, err := svc.Reserve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2030, conf.Reservation.CreatedAt.Year())
}

func TestService_Reserve_EveryConfigurableLabelIsReservable(t *testing.T) {
	store := repository.NewFileStore(filepath.Join(t.TempDir(), "schedule.json"))
	coach := &domain.Identity{Email: "coach@example.com"}
	hoursSvc := hours.NewService(store, adminGate(coach.Email), nil)

	longest := "Sat clinic 09:00-10:30 (court 2)"
	require.Len(t, longest, domain.MaxTimeLabelLength)
	_, err := hoursSvc.Set(context.Background(), coach, []string{"09:00 AM", longest})
	require.NoError(t, err)

	_, err = hoursSvc.Set(context.Background(), coach, []string{longest + "!"})
	require.ErrorIs(t, err, hours.ErrInvalidHours)

	svc := NewService(store, hoursSvc, nil, nil, paymentLink)
	req := validRequest()
	req.Time = longest

	conf, err := svc.Reserve(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.TimeLabel(longest), conf.Reservation.Time)
}

func TestReserveRequest_TimeLimitMatchesHours(t *testing.T) {
	field, ok := reflect.TypeOf(ReserveRequest{}).FieldByName("Time")
	require.True(t, ok)
	assert.Contains(t, field.Tag.Get("validate"), fmt.Sprintf("max=%d", domain.MaxTimeLabelLength))
}

func TestService_GetByReference(t *testing.T) {
	repo := new(MockReservationRepository)
	ref := "0b8a3f1e-3c0c-4a52-bb56-1c6a2e0c9d44"
	repo.On("GetByReference", mock.Anything, ref).Return(&domain.Reservation{
		Reference: ref,
		Day:       domain.NewDay(2024, time.June, 10),
		Time:      "09:00 AM",
	}, nil)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	conf, err := svc.GetByReference(context.Background(), ref)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-10 at 09:00 AM", conf.Slot)
}

func TestService_GetByReference_NotFound(t *testing.T) {
	repo := new(MockReservationRepository)
	ref := "0b8a3f1e-3c0c-4a52-bb56-1c6a2e0c9d44"
	repo.On("GetByReference", mock.Anything, ref).Return(nil, repository.ErrNotFound)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	_, err := svc.GetByReference(context.Background(), ref)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByReference(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListDay_OrdersByHours(t *testing.T) {
	repo := new(MockReservationRepository)
	day := domain.NewDay(2024, time.June, 10)
	repo.On("ListByDay", mock.Anything, day).Return([]domain.Reservation{
		{Time: "07:00 PM"},
		{Time: "10:00 AM"},
		{Time: "08:00 AM"},
	}, nil)
	svc := NewService(repo, testHours, nil, nil, paymentLink)

	list, err := svc.ListDay(context.Background(), day)

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.TimeLabel("08:00 AM"), list[0].Time)
	assert.Equal(t, domain.TimeLabel("10:00 AM"), list[1].Time)
	assert.Equal(t, domain.TimeLabel("07:00 PM"), list[2].Time)
}

func TestPaymentQR(t *testing.T) {
	assert.Empty(t, paymentQR(""))
	assert.True(t, strings.HasPrefix(paymentQR(paymentLink), "data:image/png;base64,"))
}
