package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domevent "example.com/localspark/app/internal/domain/event"
	domnotification "example.com/localspark/app/internal/domain/notification"
	dom "example.com/localspark/app/internal/domain/registration"
	"example.com/localspark/app/internal/infra/persistence/memory"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(ctx context.Context, ownerID string, typ domnotification.Type, title, message string) error {
	m.messages = append(m.messages, ownerID+"|"+string(typ)+"|"+message)
	return nil
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	notifier *mockNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &mockNotifier{}
	svc := NewService(store.Registrations(), store.Events(), notifier)
	svc.now = func() time.Time { return testNow }
	return &fixture{svc: svc, store: store, notifier: notifier}
}

func (f *fixture) event(t *testing.T, title string, start time.Time, capacity *int64) *domevent.Event {
	t.Helper()
	e, err := f.store.Events().Create(context.Background(), &domevent.Event{
		Title:        title,
		StartDate:    start,
		EndDate:      start.Add(2 * time.Hour),
		MaxAttendees: capacity,
		IsActive:     true,
	})
	require.NoError(t, err)
	return e
}

func TestService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2025, 6, 3, 19, 30, 0, 0, time.UTC)
	e := f.event(t, "Jazz Night", start, nil)

	reg, err := f.svc.Register(ctx, "user-1", e.ID)

	require.NoError(t, err)
	require.Equal(t, "user-1", reg.UserID)
	require.Equal(t, e.ID, reg.EventID)

	stored, err := f.store.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.CurrentAttendees)

	require.Equal(t, []string{"user-1|event|You're registered for Jazz Night on Jun 3, 2025 7:30 PM."}, f.notifier.messages)
}

func TestService_Register_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capacity := int64(1)
	full := f.event(t, "Tiny", testNow.Add(time.Hour), &capacity)
	ended := f.event(t, "Old", testNow.Add(-5*time.Hour), nil)
	hidden := f.event(t, "Hidden", testNow.Add(time.Hour), nil)
	hidden.IsActive = false
	_, err := f.store.Events().Update(ctx, hidden)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "user-1", full.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		eventID string
		wantErr error
	}{
		{name: "Already registered", userID: "user-1", eventID: full.ID, wantErr: dom.ErrAlreadyRegistered},
		{name: "Event full", userID: "user-2", eventID: full.ID, wantErr: dom.ErrEventFull},
		{name: "Event ended", userID: "user-2", eventID: ended.ID, wantErr: dom.ErrEventEnded},
		{name: "Inactive event", userID: "user-2", eventID: hidden.ID, wantErr: domevent.ErrEventNotFound},
		{name: "Unknown event", userID: "user-2", eventID: "missing", wantErr: domevent.ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.userID, tt.eventID)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capacity := int64(1)
	e := f.event(t, "Tiny", testNow.Add(time.Hour), &capacity)

	_, err := f.svc.Register(ctx, "user-1", e.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, "user-1", e.ID))
	require.ErrorIs(t, f.svc.Cancel(ctx, "user-1", e.ID), dom.ErrRegistrationNotFound)

	stored, err := f.store.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Zero(t, stored.CurrentAttendees)

	_, err = f.svc.Register(ctx, "user-2", e.ID)
	require.NoError(t, err)
}

func TestService_ListMineAndForEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.event(t, "A", testNow.Add(time.Hour), nil)
	b := f.event(t, "B", testNow.Add(2*time.Hour), nil)

	_, err := f.svc.Register(ctx, "user-1", b.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "user-1", a.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "user-2", a.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "B", mine[0].Event.Title)
	require.Equal(t, "A", mine[1].Event.Title)

	none, err := f.svc.ListMine(ctx, "user-3")
	require.NoError(t, err)
	require.Empty(t, none)

	regs, err := f.svc.ListForEvent(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)

	_, err = f.svc.ListForEvent(ctx, "missing")
	require.ErrorIs(t, err, domevent.ErrEventNotFound)
}
