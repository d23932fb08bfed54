package session

import (
	"context"
	"errors"

	"github.com/deepself/deepself-cli/internal/api"
)

// ErrAlreadyFinalized is returned by a second Finalize
var ErrAlreadyFinalized = errors.New("training room already finalized")

// Finalizer closes a training room on the server
type Finalizer interface {
	FinalizeRoom(ctx context.Context, roomID string) (*api.FinalizeRoomResponse, error)
}

// Room is an open training room. The client only holds its id, which never
// changes once the server has assigned it.
type Room struct {
	Label       string
	TargetModel string

	id        string
	finalized bool
}

// NewRoom wraps a created room
func NewRoom(id, label, targetModel string) *Room {
	return &Room{id: id, Label: label, TargetModel: targetModel}
}

// ID returns the server-assigned room id
func (r *Room) ID() string {
	return r.id
}

// Finalize sends the finalize request. It is sent at most once, even when
// the first attempt fails.
func (r *Room) Finalize(ctx context.Context, f Finalizer) (*api.FinalizeRoomResponse, error) {
	if r.finalized {
		return nil, ErrAlreadyFinalized
	}
	r.finalized = true
	return f.FinalizeRoom(ctx, r.id)
}

// Finalized reports whether Finalize has been called
func (r *Room) Finalized() bool {
	return r.finalized
}
