// Package bridge fans document mutations out to connected observers and
// routes their edits back into the store. It is transport-agnostic: anything
// with a Send/Open capability can observe the canvas.
package bridge

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"canvas/internal/domain"
	"canvas/internal/store"
)

// Observer is one connected party. Send must be safe for concurrent use;
// Open reports whether the transport can still accept messages.
type Observer interface {
	Send(msg Message) error
	Open() bool
}

// Bridge connects the store's subscription mechanism to a set of observers.
type Bridge struct {
	store       *store.Store
	mu          sync.Mutex
	observers   map[Observer]struct{}
	unsubscribe func()
}

func New(st *store.Store) *Bridge {
	b := &Bridge{
		store:     st,
		observers: map[Observer]struct{}{},
	}
	b.unsubscribe = st.Subscribe(b.onStateChange)
	return b
}

// Attach registers an observer and immediately sends it a full-state
// snapshot, so a late joiner starts from the current document.
func (b *Bridge) Attach(obs Observer) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()

	b.sendTo(obs, Message{
		Type:      MessageStateFull,
		Payload:   b.store.Document(),
		Timestamp: time.Now().UnixMilli(),
	})
}

// Detach removes an observer from the fan-out set.
func (b *Bridge) Detach(obs Observer) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

// ClientCount returns the number of attached observers.
func (b *Bridge) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// Close detaches the bridge from the store and closes every observer whose
// transport supports closing.
func (b *Bridge) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.mu.Lock()
	observers := make([]Observer, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.observers = map[Observer]struct{}{}
	b.mu.Unlock()

	for _, obs := range observers {
		if c, ok := obs.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

// BroadcastCodeUpdate relays generated files to all observers.
func (b *Bridge) BroadcastCodeUpdate(files map[string]string) {
	b.broadcast(Message{
		Type:      MessageCodeUpdate,
		Payload:   CodeUpdatePayload{Files: files},
		Timestamp: time.Now().UnixMilli(),
	})
}

// HandleInbound routes one raw message from an observer back into the
// store. Malformed payloads are dropped; an observer can never crash the
// bridge by sending garbage.
func (b *Bridge) HandleInbound(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	switch msg.Type {
	case MessageUserEdit:
		var p editPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		b.store.Apply(p.Command, store.OriginInteractive)

	case MessageUserSelection:
		var p selectionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if len(p.SelectedIDs) == 0 {
			b.store.Apply(domain.Command{Type: domain.CommandClearSelection}, store.OriginInteractive)
			return
		}
		b.store.Apply(domain.Command{
			Type:    domain.CommandSetSelection,
			Payload: domain.CommandPayload{IDs: p.SelectedIDs},
		}, store.OriginInteractive)

	case MessageScreenshot:
		// Relay-only; no core semantics.
	}
}

// onStateChange is the store listener. A non-empty command list becomes one
// patch message per command; an empty list (undo/redo/replace) becomes a
// single full-state message.
func (b *Bridge) onStateChange(doc *domain.Document, commands []domain.Command) {
	if len(commands) == 0 {
		b.broadcast(Message{
			Type:      MessageStateFull,
			Payload:   doc,
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}
	for _, cmd := range commands {
		b.broadcast(Message{
			Type:      MessageStatePatch,
			Payload:   PatchPayload{Command: cmd, Result: doc},
			Timestamp: time.Now().UnixMilli(),
		})
	}
}

// broadcast sends to every open observer. Observers that error are removed;
// observers that are not open are skipped without affecting the others.
func (b *Bridge) broadcast(msg Message) {
	b.mu.Lock()
	observers := make([]Observer, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.Unlock()

	for _, obs := range observers {
		b.sendTo(obs, msg)
	}
}

func (b *Bridge) sendTo(obs Observer, msg Message) {
	if !obs.Open() {
		return
	}
	if err := obs.Send(msg); err != nil {
		log.Printf("[Bridge] dropping observer after send error: %v", err)
		b.Detach(obs)
	}
}
