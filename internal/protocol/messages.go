// Package protocol defines the JSON websocket messages of the draw service.
// It is the binding surface over the core: every message maps onto one
// generator or collection operation.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType identifies a websocket message.
type MessageType string

// Client to server message types.
const (
	TypeDraw     MessageType = "draw"
	TypeState    MessageType = "state"
	TypeRestore  MessageType = "restore"
	TypeAdvance  MessageType = "advance"
	TypeDistance MessageType = "distance"
	TypeList     MessageType = "list"
)

// Server to client message types.
const (
	TypeDrawResult     MessageType = "draw_result"
	TypeStateResult    MessageType = "state_result"
	TypeDistanceResult MessageType = "distance_result"
	TypeAck            MessageType = "ack"
	TypeStreamList     MessageType = "stream_list"
	TypeError          MessageType = "error"
)

// Message is the envelope every frame carries.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps a payload in an envelope.
func NewMessage(t MessageType, v any) (*Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal %s: %w", t, err)
	}
	return &Message{Type: t, Data: data}, nil
}

// Decode unmarshals the envelope payload into v.
func (m *Message) Decode(v any) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("protocol: decode %s: %w", m.Type, err)
	}
	return nil
}

// DrawRequest asks a stream for samples. Shape is the inner (per-cell)
// shape; the reply's shape is the stream's shape followed by it.
type DrawRequest struct {
	Stream       string  `json:"stream"`
	Shape        []int   `json:"shape,omitempty"`
	Distribution string  `json:"distribution,omitempty"` // default "uniform"
	K            float64 `json:"k,omitempty"`
	Lambda       float64 `json:"lambda,omitempty"`
	Mu           float64 `json:"mu,omitempty"`
	Sigma        float64 `json:"sigma,omitempty"`
}

// DrawResult carries the drawn values in row-major order.
type DrawResult struct {
	Stream string    `json:"stream"`
	Shape  []int     `json:"shape"`
	Values []float64 `json:"values"`
}

// StateRequest asks for a stream's checkpoint.
type StateRequest struct {
	Stream string `json:"stream"`
}

// StateResult is a complete checkpoint: seeds and current states per cell.
type StateResult struct {
	Stream     string   `json:"stream"`
	Shape      []int    `json:"shape"`
	States     []uint64 `json:"states"`
	InitStates []uint64 `json:"initstates"`
	InitSeqs   []uint64 `json:"initseqs"`
}

// RestoreRequest overwrites a stream's per-cell states.
type RestoreRequest struct {
	Stream string   `json:"stream"`
	States []uint64 `json:"states"`
}

// AdvanceRequest jumps a stream. Either Delta applies to every cell, or
// Deltas carries one signed step count per cell.
type AdvanceRequest struct {
	Stream string  `json:"stream"`
	Delta  *int64  `json:"delta,omitempty"`
	Deltas []int64 `json:"deltas,omitempty"`
}

// DistanceRequest asks for per-cell signed distances from the stream's
// current states to the given target states.
type DistanceRequest struct {
	Stream string   `json:"stream"`
	States []uint64 `json:"states"`
}

// DistanceResult carries per-cell signed step counts.
type DistanceResult struct {
	Stream    string  `json:"stream"`
	Distances []int64 `json:"distances"`
}

// Ack confirms a mutation (restore, advance).
type Ack struct {
	Stream string `json:"stream"`
}

// StreamInfo describes one configured stream.
type StreamInfo struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape,omitempty"`
	Size  int    `json:"size"`
}

// StreamList enumerates the configured streams.
type StreamList struct {
	Streams []StreamInfo `json:"streams"`
}

// ErrorData reports a failed request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeUnknownStream  = "unknown_stream"
	CodeShapeMismatch  = "shape_mismatch"
	CodeBadRequest     = "bad_request"
	CodeStreamMismatch = "stream_mismatch"
)
