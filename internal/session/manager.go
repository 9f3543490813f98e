package session

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Defaults are the system-wide spreadsheet and sheet used when a state
// carries no override.
type Defaults struct {
	SpreadsheetID string
	SheetName     string
}

// Manager holds the in-memory working copy of every active session and
// is the sole writer back to the Store. Each get-then-put cycle for a
// user runs under that user's own lock, so concurrent events for the
// same user can never interleave a read-modify-write.
type Manager struct {
	store    Store
	defaults Defaults
	now      func() time.Time

	mu     sync.Mutex
	states map[int64]*State
	locks  map[int64]*sync.Mutex
}

func NewManager(store Store, defaults Defaults) *Manager {
	return &Manager{
		store:    store,
		defaults: defaults,
		now:      time.Now,
		states:   make(map[int64]*State),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lk, ok := m.locks[userID]
	if !ok {
		lk = &sync.Mutex{}
		m.locks[userID] = lk
	}
	return lk
}

// load returns the cached working copy, pulling it from the store on
// first touch. Caller must hold the user's lock.
func (m *Manager) load(userID int64) *State {
	m.mu.Lock()
	st, ok := m.states[userID]
	m.mu.Unlock()
	if ok {
		return st
	}
	loaded, err := m.store.Get(userID)
	if err != nil {
		log.Printf("session: load for %d failed, starting fresh: %v", userID, err)
		loaded = Default(userID)
	}
	m.mu.Lock()
	m.states[userID] = &loaded
	m.mu.Unlock()
	return &loaded
}

// Get returns the user's current state, initializing a default one on
// first interaction.
func (m *Manager) Get(userID int64) State {
	lk := m.userLock(userID)
	lk.Lock()
	defer lk.Unlock()
	return *m.load(userID)
}

// Update applies fn to the user's state as one critical section, stamps
// LastUpdated and flushes to the store. On flush failure the in-memory
// copy remains authoritative; the returned state is valid either way.
func (m *Manager) Update(userID int64, fn func(*State)) (State, error) {
	lk := m.userLock(userID)
	lk.Lock()
	defer lk.Unlock()
	st := m.load(userID)
	fn(st)
	return m.flush(st)
}

// Transition moves the user to a new mode, enforcing the transition
// table. Returning to idle clears any pending sub-step.
func (m *Manager) Transition(userID int64, to Mode) (State, error) {
	lk := m.userLock(userID)
	lk.Lock()
	defer lk.Unlock()
	st := m.load(userID)
	if !canTransition(st.Mode, to) {
		return *st, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, st.Mode, to)
	}
	st.Mode = to
	if to == ModeIdle {
		st.Pending = ""
	}
	return m.flush(st)
}

// Reset forces the session back to idle from any state.
func (m *Manager) Reset(userID int64) (State, error) {
	return m.Transition(userID, ModeIdle)
}

// SheetInfo resolves the spreadsheet id and sheet name the user is
// currently targeting, falling back to the system-wide defaults.
func (m *Manager) SheetInfo(userID int64) (string, string) {
	st := m.Get(userID)
	id, name := st.SpreadsheetID, st.SheetName
	if id == "" {
		id = m.defaults.SpreadsheetID
	}
	if name == "" {
		name = m.defaults.SheetName
	}
	return id, name
}

func (m *Manager) flush(st *State) (State, error) {
	st.LastUpdated = m.now()
	if err := m.store.Put(*st); err != nil {
		return *st, err
	}
	return *st, nil
}
