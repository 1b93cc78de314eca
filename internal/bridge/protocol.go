package bridge

import (
	"encoding/json"

	"canvas/internal/domain"
)

type MessageType string

const (
	// Outbound
	MessageStateFull  MessageType = "state:full"
	MessageStatePatch MessageType = "state:patch"
	MessageCodeUpdate MessageType = "code:update"

	// Inbound
	MessageUserEdit      MessageType = "user:edit"
	MessageUserSelection MessageType = "user:selection"
	MessageScreenshot    MessageType = "response:screenshot"
)

// Message is the wire envelope for both directions.
type Message struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// PatchPayload carries one atomic command plus the document it produced, so
// observers can reconstruct each transition rather than only the net effect.
type PatchPayload struct {
	Command domain.Command   `json:"command"`
	Result  *domain.Document `json:"result"`
}

// CodeUpdatePayload relays generated source files to observers. The files
// are produced by an external collaborator; the bridge only fans them out.
type CodeUpdatePayload struct {
	Files map[string]string `json:"files"`
}

type editPayload struct {
	Command domain.Command `json:"command"`
}

type selectionPayload struct {
	SelectedIDs []string `json:"selectedIds"`
}

// inboundMessage defers payload decoding until the type is known.
type inboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
