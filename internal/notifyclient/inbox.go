package notifyclient

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Mutator is the write side the inbox needs; *Client satisfies it.
type Mutator interface {
	MarkNotificationAsRead(ctx context.Context, id string) (*Notification, error)
	MarkAllNotificationsAsRead(ctx context.Context) error
}

type InboxOption func(*Inbox)

// WithErrorReporter receives every failed mutation after its rollback.
func WithErrorReporter(fn func(error)) InboxOption {
	return func(in *Inbox) { in.report = fn }
}

func WithInboxLogger(l *zap.Logger) InboxOption {
	return func(in *Inbox) {
		if l != nil {
			in.logger = l
		}
	}
}

// Inbox is the local, newest-first view of notifications. Read flags are
// flipped optimistically and rolled back when the store refuses. The
// offline placeholder lives only here and never reaches the store.
type Inbox struct {
	store  Mutator
	report func(error)
	logger *zap.Logger

	mu    sync.Mutex
	items []Notification
	// ids the store has acknowledged as read; a late failure never
	// rolls these back
	confirmed map[string]bool
}

func NewInbox(store Mutator, opts ...InboxOption) *Inbox {
	in := &Inbox{store: store, logger: zap.NewNop(), confirmed: map[string]bool{}}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Inbox) Replace(list []Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = slices.Clone(list)
	for i := range in.items {
		in.items[i].IsRead = in.items[i].IsRead || in.confirmed[in.items[i].ID]
	}
	in.dropPlaceholder(list)
}

// Merge folds a poll or push result into the inbox. Unknown ids go on top
// in the order given; known ids take the incoming fields but never lose a
// local read flag.
func (in *Inbox) Merge(list []Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()

	known := make(map[string]int, len(in.items))
	for i, n := range in.items {
		known[n.ID] = i
	}

	var fresh []Notification
	for _, n := range list {
		i, ok := known[n.ID]
		if ok && i < 0 {
			continue
		}
		n.IsRead = n.IsRead || in.confirmed[n.ID]
		if ok {
			n.IsRead = n.IsRead || in.items[i].IsRead
			in.items[i] = n
			continue
		}
		known[n.ID] = -1
		fresh = append(fresh, n)
	}
	in.items = append(fresh, in.items...)
	in.dropPlaceholder(list)
}

// dropPlaceholder removes the offline placeholder once list carries real
// notifications.
func (in *Inbox) dropPlaceholder(list []Notification) {
	if !slices.ContainsFunc(list, func(n Notification) bool { return !IsFallback(n) }) {
		return
	}
	in.items = slices.DeleteFunc(in.items, IsFallback)
}

func (in *Inbox) Items() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	return slices.Clone(in.items)
}

// Recent returns at most n notifications, newest first.
func (in *Inbox) Recent(n int) []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n > len(in.items) {
		n = len(in.items)
	}
	if n <= 0 {
		return []Notification{}
	}
	return slices.Clone(in.items[:n])
}

func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	count := 0
	for _, n := range in.items {
		if !n.IsRead && !IsFallback(n) {
			count++
		}
	}
	return count
}

func (in *Inbox) MarkAsRead(ctx context.Context, id string) error {
	in.mu.Lock()
	i := in.indexOf(id)
	if i < 0 {
		in.mu.Unlock()
		return ErrUnknownNotification
	}
	if in.items[i].IsRead {
		in.mu.Unlock()
		return nil
	}
	in.items[i].IsRead = true
	local := IsFallback(in.items[i])
	in.mu.Unlock()

	if local {
		return nil
	}
	if _, err := in.store.MarkNotificationAsRead(ctx, id); err != nil {
		in.rollback([]string{id})
		in.fail("mark as read", err)
		return err
	}
	in.confirm([]string{id})
	return nil
}

// MarkAllAsRead sends nothing when every notification is already read.
func (in *Inbox) MarkAllAsRead(ctx context.Context) error {
	in.mu.Lock()
	var flipped, covered []string
	for i := range in.items {
		n := &in.items[i]
		if IsFallback(*n) {
			n.IsRead = true
			continue
		}
		// the bulk update also covers items whose own request is in flight
		covered = append(covered, n.ID)
		if !n.IsRead {
			n.IsRead = true
			flipped = append(flipped, n.ID)
		}
	}
	in.mu.Unlock()

	if len(flipped) == 0 {
		return nil
	}
	if err := in.store.MarkAllNotificationsAsRead(ctx); err != nil {
		in.rollback(flipped)
		in.fail("mark all as read", err)
		return err
	}
	in.confirm(covered)
	return nil
}

// Open marks the notification read and returns its deep link. The link is
// returned even when marking fails so navigation is never blocked.
func (in *Inbox) Open(ctx context.Context, id string) (string, error) {
	in.mu.Lock()
	i := in.indexOf(id)
	if i < 0 {
		in.mu.Unlock()
		return "", ErrUnknownNotification
	}
	link := in.items[i].DeepLink()
	in.mu.Unlock()

	return link, in.MarkAsRead(ctx, id)
}

func (in *Inbox) rollback(ids []string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, id := range ids {
		if in.confirmed[id] {
			continue
		}
		if i := in.indexOf(id); i >= 0 {
			in.items[i].IsRead = false
		}
	}
}

// confirm records ids as read on the store and re-applies the flag in case
// an earlier failure rolled it back.
func (in *Inbox) confirm(ids []string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, id := range ids {
		in.confirmed[id] = true
		if i := in.indexOf(id); i >= 0 {
			in.items[i].IsRead = true
		}
	}
}

func (in *Inbox) fail(action string, err error) {
	in.logger.Warn("inbox "+action+" failed, rolled back", zap.Error(err))
	if in.report != nil {
		in.report(err)
	}
}

func (in *Inbox) indexOf(id string) int {
	return slices.IndexFunc(in.items, func(n Notification) bool { return n.ID == id })
}
