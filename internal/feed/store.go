// Package feed holds the session-scoped notification state: the current
// connection status and a bounded, insertion-ordered list of notifications.
//
// A Store is created when a session starts and closed when it ends. It is
// mutated by the connection manager (Add, SetConnectionStatus) and by the toast
// presenter or the user (RemoveNotification, RemoveEntry); any number of views
// may subscribe to it.
package feed

import (
	"sync"

	"go.uber.org/zap"
	"wallet_live/internal/domain"
	"wallet_live/internal/model"
)

const DefaultCapacity = 5

// Entry is a stored notification tagged with a store-local sequence number.
// Sequence numbers are unique even when notification ids repeat.
type Entry struct {
	Seq          uint64
	Notification model.Notification
}

// Snapshot is the full store state delivered to subscribers.
type Snapshot struct {
	// Version increases with every mutation.
	Version uint64
	Entries []Entry
	Status  domain.ConnectionStatus
}

func (s Snapshot) Notifications() []model.Notification {
	out := make([]model.Notification, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Notification
	}
	return out
}

type subscriber struct {
	id       uint64
	onChange func(Snapshot)
	onStatus func(domain.ConnectionStatus)
}

type Store struct {
	mu       sync.Mutex
	capacity int
	nextSeq  uint64
	version  uint64
	entries  []Entry
	status   domain.ConnectionStatus
	closed   bool

	// dispatch is held for a whole mutation including subscriber callbacks,
	// so every subscriber sees mutations in the order they were applied.
	// Callbacks may read the store but must not mutate it synchronously.
	dispatch sync.Mutex
	subsMu   sync.Mutex
	nextSub  uint64
	subs     []subscriber

	log *zap.Logger
}

func New(capacity int, logger *zap.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		nextSeq:  1,
		status:   domain.StatusOffline,
		log:      logger,
	}
}

// Add appends n, evicting the oldest entries once capacity is exceeded.
// Duplicate ids are kept as separate entries.
func (s *Store) Add(n model.Notification) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries, Entry{Seq: s.nextSeq, Notification: n})
	s.nextSeq++
	s.version++
	if over := len(s.entries) - s.capacity; over > 0 {
		for _, evicted := range s.entries[:over] {
			s.log.Debug("notification evicted", zap.String("id", evicted.Notification.ID))
		}
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap, false)
}

// RemoveNotification removes the first entry whose id matches. Unknown ids
// are a no-op.
func (s *Store) RemoveNotification(id string) {
	s.removeWhere(func(e Entry) bool { return e.Notification.ID == id })
}

// RemoveEntry removes the entry with the given sequence number and reports
// whether it was present.
func (s *Store) RemoveEntry(seq uint64) bool {
	return s.removeWhere(func(e Entry) bool { return e.Seq == seq })
}

func (s *Store) removeWhere(match func(Entry) bool) bool {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	idx := -1
	for i, e := range s.entries {
		if match(e) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	s.entries = next
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap, false)
	return true
}

func (s *Store) SetConnectionStatus(status domain.ConnectionStatus) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	changed := s.status != status
	s.status = status
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap, changed)
}

func (s *Store) ConnectionStatus() domain.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) Notifications() []model.Notification {
	return s.Snapshot().Notifications()
}

func (s *Store) Entries() []Entry {
	return s.Snapshot().Entries
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return Snapshot{Version: s.version, Entries: entries, Status: s.status}
}

// Subscribe registers fn for every mutation and returns its cancel func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.addSubscriber(subscriber{onChange: fn})
}

// SubscribeStatus registers fn for connection status changes only.
func (s *Store) SubscribeStatus(fn func(domain.ConnectionStatus)) func() {
	return s.addSubscriber(subscriber{onStatus: fn})
}

func (s *Store) addSubscriber(sub subscriber) func() {
	s.subsMu.Lock()
	s.nextSub++
	sub.id = s.nextSub
	s.subs = append(s.subs, sub)
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.removeSubscriber(sub.id) })
	}
}

func (s *Store) removeSubscriber(id uint64) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// publish runs with dispatch held.
func (s *Store) publish(snap Snapshot, statusChanged bool) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		if sub.onChange != nil {
			sub.onChange(snap)
		}
		if statusChanged && sub.onStatus != nil {
			sub.onStatus(snap.Status)
		}
	}
}

// Close ends the store's lifetime: subscribers are dropped and later
// mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.entries = nil
	s.mu.Unlock()

	s.subsMu.Lock()
	s.subs = nil
	s.subsMu.Unlock()
}
