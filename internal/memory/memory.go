// Package memory keeps the ordered dialogue history of a chat session.
package memory

import (
	"sync"

	"docchat/internal/domain"
)

// History records completed question/answer turns in order. Retention is
// an implementation choice: Buffer keeps everything, Window keeps the
// last N turns.
type History interface {
	// Append records a completed turn and returns it.
	Append(question, answer string) domain.Turn
	// Turns returns the retained turns in chronological order.
	Turns() []domain.Turn
	Clear()
	Len() int
}

// Buffer is the unbounded baseline: every turn is carried into every
// generation request. Simple, but long sessions will eventually exceed
// generator input limits; use Window when that matters.
type Buffer struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// NewBuffer returns an empty unbounded history.
func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Append(question, answer string) domain.Turn {
	turn := domain.NewTurn(question, answer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = append(b.turns, turn)
	return turn
}

func (b *Buffer) Turns() []domain.Turn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Turn(nil), b.turns...)
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = nil
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.turns)
}

// Window retains only the most recent maxTurns turns.
type Window struct {
	mu       sync.Mutex
	maxTurns int
	turns    []domain.Turn
}

// NewWindow returns a sliding-window history of the given capacity.
func NewWindow(maxTurns int) *Window {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Window{maxTurns: maxTurns}
}

func (w *Window) Append(question, answer string) domain.Turn {
	turn := domain.NewTurn(question, answer)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = append(w.turns, turn)
	if len(w.turns) > w.maxTurns {
		w.turns = w.turns[len(w.turns)-w.maxTurns:]
	}
	return turn
}

func (w *Window) Turns() []domain.Turn {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Turn(nil), w.turns...)
}

func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = nil
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.turns)
}
