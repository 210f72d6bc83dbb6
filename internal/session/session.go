// Package session manages the set of known accounts and which one is
// active. The store always contains an anonymous user that owns local data
// created while signed out; account remediation (token expiry, disable,
// deletion) switches back to it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// AnonymousUsername identifies the built-in signed-out account.
const AnonymousUsername = "anonymous"

// User is one known account on this device.
type User struct {
	UUID          string `json:"uuid"`
	Username      string `json:"username"`
	Token         string `json:"token,omitempty"`
	ServerAddress string `json:"server_address,omitempty"`
	LoggedIn      bool   `json:"logged_in"`
}

// IsAnonymous reports whether this is the built-in local account.
func (u User) IsAnonymous() bool {
	return u.Username == AnonymousUsername
}

type state struct {
	ActiveUUID  string `json:"active_uuid"`
	Users       []User `json:"users"`
	DataVersion int64  `json:"data_version"`
}

// Store persists session state as JSON in the config directory.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a session store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "session.json")}
}

func (s *Store) load() (*state, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First use: mint the anonymous account and persist it right
			// away so its uuid is stable across processes.
			anon := User{UUID: uuid.NewString(), Username: AnonymousUsername}
			st := &state{ActiveUUID: anon.UUID, Users: []User{anon}}
			if err := s.save(st); err != nil {
				return nil, err
			}
			return st, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse session state: %w", err)
	}
	return &st, nil
}

func (s *Store) save(st *state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

func (st *state) anonymous() *User {
	for i := range st.Users {
		if st.Users[i].Username == AnonymousUsername {
			return &st.Users[i]
		}
	}
	return nil
}

func (st *state) byUUID(userUUID string) *User {
	for i := range st.Users {
		if st.Users[i].UUID == userUUID {
			return &st.Users[i]
		}
	}
	return nil
}

// Active returns the currently active user, which is the anonymous user
// when nobody is signed in.
func (s *Store) Active() (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return User{}, err
	}
	if u := st.byUUID(st.ActiveUUID); u != nil {
		return *u, nil
	}
	if a := st.anonymous(); a != nil {
		return *a, nil
	}
	return User{}, fmt.Errorf("session state has no anonymous user")
}

// Anonymous returns the built-in signed-out account.
func (s *Store) Anonymous() (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return User{}, err
	}
	if a := st.anonymous(); a != nil {
		return *a, nil
	}
	return User{}, fmt.Errorf("session state has no anonymous user")
}

// SignIn adds or updates an account and makes it active.
func (s *Store) SignIn(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	u.LoggedIn = true
	if existing := st.byUUID(u.UUID); existing != nil {
		*existing = u
	} else {
		st.Users = append(st.Users, u)
	}
	st.ActiveUUID = u.UUID
	return s.save(st)
}

// SignOut clears the user's token, marks it logged out, and switches the
// active session to the anonymous user. Local data is left intact.
func (s *Store) SignOut(userUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	if u := st.byUUID(userUUID); u != nil {
		u.Token = ""
		u.LoggedIn = false
	}
	anon := st.anonymous()
	if anon == nil {
		return fmt.Errorf("session state has no anonymous user")
	}
	st.ActiveUUID = anon.UUID
	return s.save(st)
}

// Remove deletes the account entry entirely and switches to anonymous.
// Used after the server reports the account deleted.
func (s *Store) Remove(userUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	users := st.Users[:0]
	for _, u := range st.Users {
		if u.UUID != userUUID || u.Username == AnonymousUsername {
			users = append(users, u)
		}
	}
	st.Users = users
	anon := st.anonymous()
	if anon == nil {
		return fmt.Errorf("session state has no anonymous user")
	}
	st.ActiveUUID = anon.UUID
	return s.save(st)
}

// SetUsername records a server-side username change for the account.
func (s *Store) SetUsername(userUUID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	if u := st.byUUID(userUUID); u != nil {
		u.Username = username
	}
	return s.save(st)
}

// BumpDataVersion signals to readers that synced data changed underneath
// them.
func (s *Store) BumpDataVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	st.DataVersion++
	return s.save(st)
}

// DataVersion returns the current data version counter.
func (s *Store) DataVersion() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return 0, err
	}
	return st.DataVersion, nil
}
