package notifyclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMutator struct {
	mock.Mock
}

func (m *MockMutator) MarkNotificationAsRead(ctx context.Context, id string) (*Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*Notification)
	return n, args.Error(1)
}

func (m *MockMutator) MarkAllNotificationsAsRead(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func seedInbox(store Mutator, opts ...InboxOption) *Inbox {
	in := NewInbox(store, opts...)
	in.Replace([]Notification{
		{ID: "o1", Type: TypeOrder, Data: map[string]any{"orderId": "17"}},
		{ID: "b1", Type: TypeBooking, Data: map[string]any{"bookingId": "5"}},
		{ID: "s1", Type: TypeSystem, IsRead: true, Data: map[string]any{}},
	})
	return in
}

func readFlags(in *Inbox) map[string]bool {
	flags := map[string]bool{}
	for _, n := range in.Items() {
		flags[n.ID] = n.IsRead
	}
	return flags
}

func TestInbox_MarkAsReadTouchesOnlyThatNotification(t *testing.T) {
	store := new(MockMutator)
	store.On("MarkNotificationAsRead", mock.Anything, "o1").Return(&Notification{ID: "o1", IsRead: true}, nil).Once()

	in := seedInbox(store)
	require.NoError(t, in.MarkAsRead(context.Background(), "o1"))

	assert.Equal(t, map[string]bool{"o1": true, "b1": false, "s1": true}, readFlags(in))
	assert.Equal(t, 1, in.UnreadCount())

	// already read: no second request
	require.NoError(t, in.MarkAsRead(context.Background(), "o1"))
	store.AssertExpectations(t)
}

func TestInbox_MarkAsReadRollsBackAndReports(t *testing.T) {
	storeErr := &APIError{Status: 500, Message: "database is down"}
	store := new(MockMutator)
	store.On("MarkNotificationAsRead", mock.Anything, "b1").Return(nil, storeErr).Once()

	var reported []error
	in := seedInbox(store, WithErrorReporter(func(err error) { reported = append(reported, err) }))

	err := in.MarkAsRead(context.Background(), "b1")
	require.ErrorIs(t, err, storeErr)

	assert.Equal(t, map[string]bool{"o1": false, "b1": false, "s1": true}, readFlags(in))
	require.Len(t, reported, 1)
	assert.EqualError(t, reported[0], "database is down")
	store.AssertExpectations(t)
}

func TestInbox_MarkAsReadUnknownID(t *testing.T) {
	store := new(MockMutator)
	in := seedInbox(store)

	assert.ErrorIs(t, in.MarkAsRead(context.Background(), "nope"), ErrUnknownNotification)
	store.AssertNotCalled(t, "MarkNotificationAsRead", mock.Anything, mock.Anything)
}

func TestInbox_MarkAllAsReadIsIdempotent(t *testing.T) {
	store := new(MockMutator)
	store.On("MarkAllNotificationsAsRead", mock.Anything).Return(nil).Once()

	in := seedInbox(store)
	require.NoError(t, in.MarkAllAsRead(context.Background()))
	first := readFlags(in)

	require.NoError(t, in.MarkAllAsRead(context.Background()))

	assert.Equal(t, map[string]bool{"o1": true, "b1": true, "s1": true}, first)
	assert.Equal(t, first, readFlags(in))
	assert.Zero(t, in.UnreadCount())
	store.AssertNumberOfCalls(t, "MarkAllNotificationsAsRead", 1)
}

func TestInbox_MarkAllAsReadRollsBackOnlyFlipped(t *testing.T) {
	store := new(MockMutator)
	store.On("MarkAllNotificationsAsRead", mock.Anything).Return(errors.New("offline")).Once()

	var reported error
	in := seedInbox(store, WithErrorReporter(func(err error) { reported = err }))

	require.Error(t, in.MarkAllAsRead(context.Background()))
	assert.Equal(t, map[string]bool{"o1": false, "b1": false, "s1": true}, readFlags(in))
	assert.EqualError(t, reported, "offline")
}

func TestInbox_MergeKeepsLocalReadState(t *testing.T) {
	store := new(MockMutator)
	store.On("MarkNotificationAsRead", mock.Anything, "o1").Return(&Notification{ID: "o1", IsRead: true}, nil)

	in := seedInbox(store)
	require.NoError(t, in.MarkAsRead(context.Background(), "o1"))

	// a poll that raced the mark still reports o1 unread
	in.Merge([]Notification{
		{ID: "n1", Type: TypeSystem, Title: "fresh"},
		{ID: "o1", Type: TypeOrder, Title: "updated", Data: map[string]any{"orderId": "17"}},
		{ID: "n1", Type: TypeSystem, Title: "duplicate"},
	})

	items := in.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "n1", items[0].ID)
	assert.Equal(t, "fresh", items[0].Title)
	assert.Equal(t, "o1", items[1].ID)
	assert.Equal(t, "updated", items[1].Title)
	assert.True(t, items[1].IsRead)
	assert.Equal(t, 2, in.UnreadCount())

	assert.Len(t, in.Recent(2), 2)
	assert.Len(t, in.Recent(10), 4)
	assert.Empty(t, in.Recent(0))
}

func TestInbox_OpenMarksReadAndLinks(t *testing.T) {
	store := new(MockMutator)
	store.On("MarkNotificationAsRead", mock.Anything, "o1").Return(&Notification{ID: "o1", IsRead: true}, nil)
	store.On("MarkNotificationAsRead", mock.Anything, "b1").Return(nil, errors.New("offline"))

	in := seedInbox(store)

	link, err := in.Open(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "/admin/orders?highlight=17", link)

	link, err = in.Open(context.Background(), "b1")
	assert.Error(t, err)
	assert.Equal(t, "/admin/bookings?highlight=5", link)

	link, err = in.Open(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, link)

	_, err = in.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownNotification)
}

func TestInbox_PlaceholderGoesAwayAfterRecovery(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":"r1","type":"BOOKING","title":"New booking","message":"m","isRead":false,
			 "data":{"bookingId":"9"},"createdAt":"2026-03-10T12:00:00Z"}
		]}`)
	})

	var reported []error
	in := NewInbox(c, WithErrorReporter(func(err error) { reported = append(reported, err) }))

	in.Merge(c.FetchNotifications(context.Background(), true, 10))
	require.Len(t, in.Items(), 1)
	require.True(t, IsFallback(in.Items()[0]))
	assert.Zero(t, in.UnreadCount())

	in.Merge(c.FetchNotifications(context.Background(), true, 10))
	items := in.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "r1", items[0].ID)
	assert.Equal(t, 1, in.UnreadCount())

	assert.ErrorIs(t, in.MarkAsRead(context.Background(), fallbackID), ErrUnknownNotification)
	assert.Empty(t, reported)
}

func TestInbox_PlaceholderDismissedLocally(t *testing.T) {
	store := new(MockMutator)
	in := NewInbox(store)
	in.Replace(fallbackNotifications(time.Now()))

	require.NoError(t, in.MarkAsRead(context.Background(), fallbackID))
	assert.True(t, in.Items()[0].IsRead)

	in.Replace(fallbackNotifications(time.Now()))
	link, err := in.Open(context.Background(), fallbackID)
	require.NoError(t, err)
	assert.Empty(t, link)

	in.Replace(fallbackNotifications(time.Now()))
	require.NoError(t, in.MarkAllAsRead(context.Background()))
	assert.True(t, in.Items()[0].IsRead)
	assert.Zero(t, in.UnreadCount())

	store.AssertNotCalled(t, "MarkNotificationAsRead", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "MarkAllNotificationsAsRead", mock.Anything)
}

func TestInbox_BulkSuccessOutlivesEarlierSingleFailure(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	store := new(MockMutator)
	store.On("MarkNotificationAsRead", mock.Anything, "o1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil, errors.New("timeout")).Once()
	store.On("MarkAllNotificationsAsRead", mock.Anything).Return(nil).Once()

	var mu sync.Mutex
	var reported []error
	in := seedInbox(store, WithErrorReporter(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}))

	single := make(chan error, 1)
	go func() { single <- in.MarkAsRead(context.Background(), "o1") }()
	<-entered

	require.NoError(t, in.MarkAllAsRead(context.Background()))
	close(release)
	require.Error(t, <-single)

	assert.Equal(t, map[string]bool{"o1": true, "b1": true, "s1": true}, readFlags(in))
	assert.Zero(t, in.UnreadCount())

	// a stale poll cannot resurrect it either
	in.Merge([]Notification{{ID: "o1", Type: TypeOrder, Data: map[string]any{"orderId": "17"}}})
	assert.True(t, readFlags(in)["o1"])

	mu.Lock()
	assert.Len(t, reported, 1)
	mu.Unlock()
	store.AssertExpectations(t)
}
