package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SourceStatus is the single-character state marker of a tracked source tree.
type SourceStatus byte

const (
	// StatusClean marks a source tree checked out at its pinned revision.
	StatusClean SourceStatus = ' '
	// StatusModified marks a source tree whose checked-out revision differs from the pinned one.
	StatusModified SourceStatus = '+'
	// StatusUninitialized marks a submodule that has not been initialized.
	StatusUninitialized SourceStatus = '-'
	// StatusConflict marks a submodule with merge conflicts.
	StatusConflict SourceStatus = 'U'
)

// String returns a readable name for the status.
func (s SourceStatus) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusModified:
		return "modified"
	case StatusUninitialized:
		return "uninitialized"
	case StatusConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// SourceStamp identifies the state of a tracked source tree at build time.
// Two stamps are equal if and only if both the status and the revision match.
type SourceStamp struct {
	Status   SourceStatus
	Revision string
}

// NewSourceStamp creates a stamp from a status and revision.
func NewSourceStamp(status SourceStatus, revision string) SourceStamp {
	return SourceStamp{Status: status, Revision: revision}
}

// ParseSourceStamp parses the persisted one-line token form of a stamp.
func ParseSourceStamp(token string) (SourceStamp, error) {
	token = strings.TrimRight(token, "\r\n")
	if len(token) < 2 {
		return SourceStamp{}, zerr.With(zerr.Wrap(ErrInvalidStamp, "stamp token is too short"), "token", token)
	}
	return SourceStamp{
		Status:   SourceStatus(token[0]),
		Revision: token[1:],
	}, nil
}

// String returns the token form: the status character followed by the revision.
func (s SourceStamp) String() string {
	return string(rune(s.Status)) + s.Revision
}

// Equal reports whether two stamps describe the same source state.
func (s SourceStamp) Equal(other SourceStamp) bool {
	return s == other
}

// IsZero reports whether the stamp is unset.
func (s SourceStamp) IsZero() bool {
	return s.Status == 0 && s.Revision == ""
}
