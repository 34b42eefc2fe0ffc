// Package history holds the profile viewer's navigation history.
package history

import "viewer/internal/domain"

// Stack is an append-only list of viewed profiles with a cursor marking the
// one currently displayed. The cursor is -1 while the stack is empty.
type Stack struct {
	entries []domain.UserRecord
	cursor  int
}

func NewStack() *Stack {
	return &Stack{
		entries: make([]domain.UserRecord, 0),
		cursor:  -1,
	}
}

// Push appends a record and moves the cursor onto it.
func (s *Stack) Push(rec domain.UserRecord) {
	s.entries = append(s.entries, rec)
	s.cursor = len(s.entries) - 1
}

// Back moves the cursor one step towards the oldest entry. At the first
// entry, or on an empty stack, it does nothing and returns false.
func (s *Stack) Back() (domain.UserRecord, bool) {
	if s.cursor <= 0 {
		return domain.UserRecord{}, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Current returns the record under the cursor.
func (s *Stack) Current() (domain.UserRecord, bool) {
	if s.cursor < 0 {
		return domain.UserRecord{}, false
	}
	return s.entries[s.cursor], true
}

func (s *Stack) Len() int {
	return len(s.entries)
}

func (s *Stack) Cursor() int {
	return s.cursor
}

func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}
