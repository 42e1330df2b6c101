// Package realtime pushes job events to websocket observers.
//
// A Hub keeps the subscribers of every job. Send encodes an event once and
// offers it to each subscriber's buffer without blocking; a subscriber that
// does not keep up loses events instead of slowing the sender.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
)

const defaultBufferSize = 32

// Envelope is the wire form of a ChannelEvent.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

var _ ports.Channel = (*Hub)(nil)

type Hub struct {
	mu          sync.RWMutex
	subscribers map[kernel.UUID]map[*Subscription]struct{}
	bufferSize  int
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[kernel.UUID]map[*Subscription]struct{}),
		bufferSize:  defaultBufferSize,
		logger:      logger.With("component", "realtime_hub"),
	}
}

// Subscription receives the encoded events of one job until closed.
type Subscription struct {
	hub       *Hub
	jobID     kernel.UUID
	messages  chan []byte
	closeOnce sync.Once
}

// Messages is closed when the subscription is closed.
func (s *Subscription) Messages() <-chan []byte {
	return s.messages
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
	})
}

func (h *Hub) Subscribe(jobID kernel.UUID) *Subscription {
	sub := &Subscription{hub: h, jobID: jobID, messages: make(chan []byte, h.bufferSize)}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[jobID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.subscribers[jobID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[sub.jobID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, sub.jobID)
		}
	}
	close(sub.messages)
}

// Subscribers returns the number of observers of jobID.
func (h *Hub) Subscribers(jobID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[jobID])
}

func (h *Hub) Send(ctx context.Context, jobID kernel.UUID, event ports.ChannelEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := h.subscribers[jobID]
	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(Envelope{Event: event.Name, Data: event.Payload})
	if err != nil {
		h.logger.ErrorContext(ctx, "encoding realtime event failed", "event", event.Name, "error", err)
		return
	}

	// remove closes the channel under the write lock, so sending under the
	// read lock never hits a closed channel.
	for sub := range subs {
		select {
		case sub.messages <- data:
		default:
			h.logger.DebugContext(ctx, "slow observer, event dropped", "job_id", jobID.String(), "event", event.Name)
		}
	}
}
