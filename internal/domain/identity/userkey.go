package identity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidUserKey = errors.New("invalid user key")

type Kind string

const (
	KindUser      Kind = "user"
	KindAnonymous Kind = "anon"
)

// UserKey identifies whose AutoShop state is being touched. Authenticated users
// are keyed by account id, anonymous visitors by an opaque session id.
type UserKey struct {
	kind Kind
	id   string
}

func Authenticated(userID uuid.UUID) UserKey {
	return UserKey{kind: KindUser, id: userID.String()}
}

func Anonymous(sessionID string) (UserKey, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || strings.Contains(sessionID, ":") {
		return UserKey{}, ErrInvalidUserKey
	}
	return UserKey{kind: KindAnonymous, id: sessionID}, nil
}

func ParseUserKey(s string) (UserKey, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return UserKey{}, ErrInvalidUserKey
	}
	switch Kind(kind) {
	case KindUser:
		userID, err := uuid.Parse(id)
		if err != nil {
			return UserKey{}, ErrInvalidUserKey
		}
		return Authenticated(userID), nil
	case KindAnonymous:
		return Anonymous(id)
	default:
		return UserKey{}, ErrInvalidUserKey
	}
}

func (k UserKey) Kind() Kind        { return k.kind }
func (k UserKey) ID() string        { return k.id }
func (k UserKey) IsZero() bool      { return k.id == "" }
func (k UserKey) IsAnonymous() bool { return k.kind == KindAnonymous }

func (k UserKey) String() string {
	if k.IsZero() {
		return ""
	}
	return string(k.kind) + ":" + k.id
}
