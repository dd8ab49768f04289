package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const keyPrefix = "session:"

// ErrNotFound reports that a session id has no record, either because it
// never existed or because its TTL expired. It is an explicit absent
// result, not a storage fault.
var ErrNotFound = errors.New("session not found")

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a session's append-only conversation log.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the conversation state for one user. Messages are append-only
// during normal operation; the record is replaced wholesale only by Delete.
type Session struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// KV is the narrow key-value backing required by the store: a string value
// per key with per-key expiry. Satisfied by Redis in production and by an
// in-memory fake in tests.
type KV interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) (bool, error)
}

// Store manages TTL-bounded sessions. Every write resets the TTL to the
// configured window (sliding expiry).
//
// AppendTurn is a read-modify-write of the whole record. Concurrent turns
// for the same session id are serialized through a per-session mutex, so
// no turn is ever silently lost. The mutex is held only for the append
// itself, never across embedding or generation calls.
type Store struct {
	kv  KV
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore builds a Store over the given backing with the given TTL window.
func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{
		kv:    kv,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Create makes a new empty session and returns its id.
func (s *Store) Create(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if err := s.write(ctx, id, &Session{ID: id, Messages: []Message{}}); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the session for id, or ErrNotFound when absent or expired.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, ok, err := s.kv.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", id, err)
	}
	sess.ID = id
	return &sess, nil
}

// AppendTurn appends the (user, assistant) message pair for one completed
// turn and slides the TTL. Returns ErrNotFound when the session is absent.
// The write is all-or-nothing: a failed turn never leaves a lone user
// message behind.
func (s *Store) AppendTurn(ctx context.Context, id, userText, assistantText string) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.Messages = append(sess.Messages,
		Message{Role: RoleUser, Text: userText},
		Message{Role: RoleAssistant, Text: assistantText},
	)
	return s.write(ctx, id, sess)
}

// Delete removes the session, reporting whether a record existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.kv.Del(ctx, keyPrefix+id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return existed, nil
}

func (s *Store) write(ctx context.Context, id string, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := s.kv.SetWithTTL(ctx, keyPrefix+id, string(raw), s.ttl); err != nil {
		return fmt.Errorf("failed to write session %s: %w", id, err)
	}
	return nil
}
