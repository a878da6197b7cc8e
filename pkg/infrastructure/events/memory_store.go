package events

import (
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ErrEmptyStream is returned when an event is appended without a stream id
var ErrEmptyStream = errors.New("event stream id is required")

type subscription struct {
	types   []string
	handler EventHandler
}

// InMemoryEventStore keeps every stream in memory and notifies
// subscribers asynchronously. Call Wait before reading side effects of
// handlers.
type InMemoryEventStore struct {
	mu      sync.RWMutex
	streams map[string][]Event
	log     []Event
	subs    []subscription
	logger  *zap.Logger
	pending sync.WaitGroup
}

func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams: make(map[string][]Event),
		logger:  logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if streamID == "" {
		return ErrEmptyStream
	}

	s.mu.Lock()
	stored := placed(event, streamID, len(s.streams[streamID])+1)
	s.streams[streamID] = append(s.streams[streamID], stored)
	s.log = append(s.log, stored)
	handlers := s.handlersFor(stored.kind)
	s.mu.Unlock()

	s.logger.Debug("event appended",
		zap.String("event", stored.kind),
		zap.String("stream", streamID),
		zap.Int("version", stored.version))

	for _, h := range handlers {
		s.pending.Add(1)
		go s.dispatch(h, stored)
	}
	return nil
}

// ReadEvents returns the events of streamID from fromVersion on
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	fromVersion = max(fromVersion, 1)
	if fromVersion > len(stream) {
		return []Event{}, nil
	}
	return slices.Clone(stream[fromVersion-1:]), nil
}

// ReadAllEvents returns every event across streams from a 0-based position on
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromPosition = max(fromPosition, 0)
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return slices.Clone(s.log[fromPosition:]), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append(s.subs, subscription{types: slices.Clone(eventTypes), handler: handler})
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
		return sub.handler == handler
	})
	return nil
}

// Wait blocks until every handler started so far has returned
func (s *InMemoryEventStore) Wait() {
	s.pending.Wait()
}

// handlersFor must be called with mu held
func (s *InMemoryEventStore) handlersFor(eventType string) []EventHandler {
	var out []EventHandler
	for _, sub := range s.subs {
		if slices.Contains(sub.types, eventType) && sub.handler.CanHandle(eventType) && !slices.Contains(out, sub.handler) {
			out = append(out, sub.handler)
		}
	}
	return out
}

func (s *InMemoryEventStore) dispatch(h EventHandler, event Event) {
	defer s.pending.Done()
	if err := h.Handle(event); err != nil {
		s.logger.Error("event handler failed",
			zap.String("event", event.Type()),
			zap.String("stream", event.StreamID()),
			zap.Error(err))
	}
}
