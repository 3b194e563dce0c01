package handlers

import (
	"sync"

	"channel-post-bot/internal/post"
)

// State identifies the step of the post composition wizard a user is in.
type State string

// Wizard states. Idle means no composition is in progress.
const (
	StateIdle                 State = "idle"
	StateSelectChannel        State = "select_channel"
	StateAwaitContent         State = "await_content"
	StateAwaitButtons         State = "await_buttons"
	StateAwaitURLLabel        State = "await_url_label"
	StateAwaitURLLink         State = "await_url_link"
	StateAwaitAlertLabel      State = "await_alert_label"
	StateAwaitAlertText       State = "await_alert_text"
	StateAwaitTranslationLang State = "await_translation_lang"
	StateConfirmation         State = "confirmation"
	StateAwaitScheduleTime    State = "await_schedule_time"
	StateAwaitChannelForward  State = "await_channel_forward"
	StateAwaitDeniedText      State = "await_denied_text"
)

// Session holds the per-user wizard state and the draft under composition.
// go-telegram/bot dispatches each update on its own goroutine and album
// flushes arrive from a timer goroutine, so a handler must hold the
// session lock for the whole of its access.
type Session struct {
	mu sync.Mutex

	State        State
	Draft        *post.Draft
	PendingLabel string
}

// Lock acquires the session for one handler invocation, serializing
// concurrent updates for the same user.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Reset discards the draft and returns the session to idle. The caller
// must hold the session lock.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Draft = nil
	s.PendingLabel = ""
}

// Sessions is a mutex-guarded map of per-user sessions; the map lock
// only protects lookup, the per-session lock protects the state.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns the session for a user, creating an idle one if needed.
// The same *Session is returned for the life of the process, so callers
// racing on Get still converge on one lock.
func (s *Sessions) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		s.m[userID] = sess
	}

	return sess
}
