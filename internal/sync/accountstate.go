package sync

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gwj/vust/internal/db"
	"github.com/gwj/vust/internal/session"
	"github.com/gwj/vust/internal/syncclient"
)

// AccountState classifies a server failure by what it says about the
// account's lifecycle.
type AccountState int

// Account states. Everything that is not a terminal account condition is
// StateOrdinary and propagates as a plain error.
const (
	StateOrdinary AccountState = iota
	StateTokenExpired
	StateAccountDisabled
	StateAccountDeleted
)

func (s AccountState) String() string {
	switch s {
	case StateTokenExpired:
		return "token expired"
	case StateAccountDisabled:
		return "account disabled"
	case StateAccountDeleted:
		return "account deleted"
	default:
		return "ordinary"
	}
}

// AccountStateError reports that a sync attempt ended on a terminal
// account condition that has already been remediated locally. Callers
// should present the state, not the underlying transport error.
type AccountStateError struct {
	State AccountState
	cause error
}

func (e *AccountStateError) Error() string {
	return e.State.String()
}

func (e *AccountStateError) Unwrap() error {
	return e.cause
}

// Machine-readable reason tokens in the 403 envelope message. These are
// part of the server contract, unlike localized display text.
const (
	reasonAccountDisabled = "account_disabled"
	reasonAccountDeleted  = "account_deleted"
)

// Classify maps an RPC error to an account state using the envelope code:
// 401 means the token expired (or the account is unknown), 403 means the
// account is disabled or deleted, distinguished by the reason token in the
// message. Anything else is ordinary.
func Classify(err error) AccountState {
	var se *syncclient.StatusError
	if !errors.As(err, &se) {
		return StateOrdinary
	}
	switch se.Code {
	case 401:
		return StateTokenExpired
	case 403:
		if strings.Contains(se.Message, reasonAccountDeleted) {
			return StateAccountDeleted
		}
		return StateAccountDisabled
	default:
		return StateOrdinary
	}
}

// accountHandler executes local remediation for terminal account states.
type accountHandler struct {
	db       *db.DB
	sessions *session.Store
}

// handle applies the remediation for a terminal state: expiry and disable
// sign the user out and keep local data; deletion purges everything the
// user owns before switching to the anonymous account.
func (h *accountHandler) handle(state AccountState, user session.User) error {
	switch state {
	case StateTokenExpired, StateAccountDisabled:
		slog.Warn("sync: signing out locally", "user", user.UUID, "state", state.String())
		if err := h.sessions.SignOut(user.UUID); err != nil {
			return fmt.Errorf("sign out %s: %w", user.UUID, err)
		}
		return nil
	case StateAccountDeleted:
		slog.Warn("sync: purging local data for deleted account", "user", user.UUID)
		if err := h.db.PurgeUserData(user.UUID); err != nil {
			return fmt.Errorf("purge user data %s: %w", user.UUID, err)
		}
		if err := h.sessions.Remove(user.UUID); err != nil {
			return fmt.Errorf("remove session %s: %w", user.UUID, err)
		}
		return nil
	default:
		return fmt.Errorf("no remediation for state %q", state)
	}
}
