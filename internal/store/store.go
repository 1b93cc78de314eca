package store

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"canvas/internal/domain"
	"canvas/internal/editor"
)

// Origin tags which channel produced a mutation. It is carried through the
// undo/redo history so a restoration can be attributed to its source.
type Origin string

const (
	OriginAutomation  Origin = "automation"
	OriginInteractive Origin = "interactive"
)

// MaxHistory bounds the undo and redo stacks; the oldest entry is evicted
// first when the cap is exceeded.
const MaxHistory = 100

type historyEntry struct {
	doc       *domain.Document
	timestamp time.Time
	origin    Origin
}

// Listener receives the new document and the commands that produced it after
// every committed mutation. An empty command list means "full restoration,
// re-sync everything" (undo, redo, or replace), not "no changes". Listeners
// run synchronously inside the mutation's critical section and must not call
// back into the store.
type Listener func(doc *domain.Document, commands []domain.Command)

// Store owns the authoritative document and its history. All mutations run
// under one mutex, so committed commands form a strict total order and
// listeners observe them in exactly that order.
type Store struct {
	mu        sync.Mutex
	doc       *domain.Document
	undo      []historyEntry
	redo      []historyEntry
	listeners map[string]Listener
}

// New creates a store holding an empty document.
func New() *Store {
	return NewWithDocument(domain.NewDocument())
}

// NewWithDocument creates a store holding the given initial document.
func NewWithDocument(doc *domain.Document) *Store {
	return &Store{
		doc:       doc,
		listeners: map[string]Listener{},
	}
}

// Document returns the current document. The returned value is shared and
// must be treated as read-only; all writes go through Apply.
func (s *Store) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// HistoryCounts returns the current undo and redo stack depths.
func (s *Store) HistoryCounts() (undoCount, redoCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}

// Apply runs a single command. A command that changes nothing leaves the
// history and subscribers untouched.
func (s *Store) Apply(cmd domain.Command, origin Origin) *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := editor.Apply(s.doc, cmd)
	if next == s.doc {
		return s.doc
	}
	s.pushUndo(s.doc, origin)
	s.doc = next
	s.redo = nil
	s.notify([]domain.Command{cmd})
	return next
}

// ApplyAll runs a pre-translated command sequence as one mutation: a single
// undo entry covers the whole batch and subscribers are notified once with
// the full command list.
func (s *Store) ApplyAll(cmds []domain.Command, origin Origin) *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(cmds) == 0 {
		return s.doc
	}
	s.pushUndo(s.doc, origin)
	current := s.doc
	for _, cmd := range cmds {
		current = editor.Apply(current, cmd)
	}
	s.doc = current
	s.redo = nil
	s.notify(cmds)
	return current
}

// Undo restores the most recent history entry, or returns nil when there is
// nothing to undo.
func (s *Store) Undo() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return nil
	}
	entry := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, historyEntry{doc: s.doc, timestamp: time.Now(), origin: entry.origin})
	s.doc = entry.doc
	s.notify(nil)
	return s.doc
}

// Redo reverses the most recent undo, or returns nil when the redo stack is
// empty.
func (s *Store) Redo() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return nil
	}
	entry := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, historyEntry{doc: s.doc, timestamp: time.Now(), origin: entry.origin})
	s.doc = entry.doc
	s.notify(nil)
	return s.doc
}

// Replace installs an externally-derived document as canonical (e.g. a
// design-source import). The viewport zoom is clamped on the way in.
func (s *Store) Replace(doc *domain.Document, origin Origin) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Nodes == nil {
		doc.Nodes = map[string]*domain.Node{}
	}
	doc.Viewport = doc.Viewport.Clamped()
	s.pushUndo(s.doc, origin)
	s.doc = doc
	s.redo = nil
	s.notify(nil)
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.New().String()
	s.listeners[token] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, token)
	}
}

func (s *Store) pushUndo(doc *domain.Document, origin Origin) {
	s.undo = append(s.undo, historyEntry{doc: doc, timestamp: time.Now(), origin: origin})
	if len(s.undo) > MaxHistory {
		s.undo = s.undo[1:]
	}
}

// notify delivers the new document to every listener. A panicking listener
// is logged and skipped; it never blocks delivery to the others.
func (s *Store) notify(cmds []domain.Command) {
	for _, fn := range s.listeners {
		s.invoke(fn, cmds)
	}
}

func (s *Store) invoke(fn Listener, cmds []domain.Command) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Store] listener panicked: %v", r)
		}
	}()
	fn(s.doc, cmds)
}
