// Package transcript holds the ordered turn log of a single conversation.
package transcript

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in the conversation. Turns are never edited after
// they are appended.
type Turn struct {
	Role Role
	Text string
}

// UserTurn builds a user-authored turn.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// ModelTurn builds a model-authored turn.
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Text: text}
}

// Store is an append-only turn log. It is not safe for concurrent use; the
// owning controller is its only writer.
type Store struct {
	turns []Turn
}

// New creates a store seeded with the given turns.
func New(seed ...Turn) *Store {
	s := &Store{}
	s.Reset(seed...)
	return s
}

// Append adds a turn to the end of the log.
func (s *Store) Append(turn Turn) {
	s.turns = append(s.turns, turn)
}

// Snapshot returns a copy of the turns in insertion order.
func (s *Store) Snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Reset drops every turn and appends seed in order.
func (s *Store) Reset(seed ...Turn) {
	s.turns = make([]Turn, 0, len(seed)+8)
	s.turns = append(s.turns, seed...)
}

// Len returns the number of turns.
func (s *Store) Len() int {
	return len(s.turns)
}

// Last returns the most recent turn.
func (s *Store) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// LastOf returns the most recent turn with the given role.
func (s *Store) LastOf(role Role) (Turn, bool) {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == role {
			return s.turns[i], true
		}
	}
	return Turn{}, false
}
