package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(zap.NewNop())

	require.NoError(t, store.AppendEvent("TABLE", NewBOMExplodedEvent(BOMExploded{ProductCode: "TABLE", Components: 3})))
	require.NoError(t, store.AppendEvent("TABLE", NewBOMCycleDetectedEvent(BOMCycleDetected{ProductCode: "TABLE", Chain: []int64{1, 2, 1}})))
	require.NoError(t, store.AppendEvent(CatalogStream, NewCatalogValidatedEvent(CatalogValidated{BOMs: 4, Valid: true})))

	stream, err := store.ReadEvents("TABLE", 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 1, stream[0].Version())
	assert.Equal(t, 2, stream[1].Version())
	assert.Equal(t, BOMCycleDetectedEvent, stream[1].Type())
	assert.Equal(t, []int64{1, 2, 1}, stream[1].Data().(BOMCycleDetected).Chain)

	fromSecond, err := store.ReadEvents("TABLE", 2)
	require.NoError(t, err)
	assert.Len(t, fromSecond, 1)

	past, err := store.ReadEvents("TABLE", 5)
	require.NoError(t, err)
	assert.Empty(t, past)

	missing, err := store.ReadEvents("CHAIR", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, CatalogStream, all[1].StreamID())

	store.Wait()
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var (
		mu       sync.Mutex
		received []string
	)
	handler := &HandlerFunc{
		Types: []string{BOMExplodedEvent},
		Fn: func(e Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, e.StreamID())
			return nil
		},
	}
	failing := &HandlerFunc{
		Types: []string{BOMExplodedEvent},
		Fn:    func(Event) error { return errors.New("boom") },
	}

	require.NoError(t, store.Subscribe([]string{BOMExplodedEvent, BOMCycleDetectedEvent}, handler))
	require.NoError(t, store.Subscribe([]string{BOMExplodedEvent}, failing))

	require.NoError(t, store.AppendEvent("TABLE", NewBOMExplodedEvent(BOMExploded{ProductCode: "TABLE"})))
	// handler does not accept cycle events even though it is subscribed
	require.NoError(t, store.AppendEvent("CHAIR", NewBOMCycleDetectedEvent(BOMCycleDetected{ProductCode: "CHAIR"})))
	store.Wait()

	mu.Lock()
	assert.Equal(t, []string{"TABLE"}, received)
	mu.Unlock()

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent("DESK", NewBOMExplodedEvent(BOMExploded{ProductCode: "DESK"})))
	store.Wait()

	mu.Lock()
	assert.Equal(t, []string{"TABLE"}, received)
	mu.Unlock()
}

func TestInMemoryEventStore_RejectsEmptyStream(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	err := store.AppendEvent("", NewBOMExplodedEvent(BOMExploded{}))
	assert.ErrorIs(t, err, ErrEmptyStream)

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInMemoryEventStore_ReadReturnsCopy(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	require.NoError(t, store.AppendEvent("TABLE", NewBOMExplodedEvent(BOMExploded{ProductCode: "TABLE"})))

	first, err := store.ReadEvents("TABLE", 1)
	require.NoError(t, err)
	first[0] = nil

	again, err := store.ReadEvents("TABLE", 1)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.NotNil(t, again[0])
	assert.True(t, again[0].Timestamp().Before(time.Now().Add(time.Second)))
}
