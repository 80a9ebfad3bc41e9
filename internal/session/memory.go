package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the default in-memory Store. Transcripts are bounded by a
// per-session message cap and a TTL so a long-running server does not grow
// without limit; both are disabled when zero.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[Key]*memorySession
	ttl         time.Duration
	maxMessages int
	now         func() time.Time
}

type memorySession struct {
	messages []Message
	touched  time.Time
}

// NewMemoryStore creates an in-memory store. ttl and maxMessages of zero
// mean unbounded.
func NewMemoryStore(ttl time.Duration, maxMessages int) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[Key]*memorySession),
		ttl:         ttl,
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

// expired reports whether the session's TTL has lapsed.
func (s *MemoryStore) expired(sess *memorySession) bool {
	return s.ttl > 0 && s.now().Sub(sess.touched) > s.ttl
}

func (s *MemoryStore) Append(_ context.Context, key Key, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok || s.expired(sess) {
		sess = &memorySession{}
		s.sessions[key] = sess
	}

	sess.messages = append(sess.messages, msgs...)
	sess.touched = s.now()

	// Drop oldest messages beyond the cap.
	if s.maxMessages > 0 && len(sess.messages) > s.maxMessages {
		overflow := len(sess.messages) - s.maxMessages
		sess.messages = append([]Message(nil), sess.messages[overflow:]...)
	}

	return nil
}

func (s *MemoryStore) History(_ context.Context, key Key) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok || s.expired(sess) {
		return nil, nil
	}

	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *MemoryStore) Chats(_ context.Context, userID string) ([]Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chats []Chat
	for key, sess := range s.sessions {
		if key.UserID != userID || s.expired(sess) {
			continue
		}
		history := make([]Message, len(sess.messages))
		copy(history, sess.messages)
		chats = append(chats, Chat{Title: key.ChatTitle, History: history})
	}

	sort.Slice(chats, func(i, j int) bool { return chats[i].Title < chats[j].Title })
	return chats, nil
}

func (s *MemoryStore) Clear(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

func (s *MemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[Key]*memorySession)
	return nil
}
