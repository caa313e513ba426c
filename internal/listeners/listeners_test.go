package listeners

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/types"
	"fitness-portal/pkg/websocket"
)

type sent struct {
	key     string
	payload interface{}
	kind    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *fakeNotifier) SendMessageToUser(key string, payload interface{}, messageType string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{key, payload, messageType})
	return nil
}

type fakeChats struct {
	mu      sync.Mutex
	removed []string
}

func (c *fakeChats) Remove(key string) {
	c.mu.Lock()
	c.removed = append(c.removed, key)
	c.mu.Unlock()
}

func waitBus(t *testing.T, bus *eventbus.Bus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Wait(ctx))
}

func TestSessionListener_PushesProfileOnUpdate(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	notifier := &fakeNotifier{}
	NewSessionListener(notifier, nil, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.SessionUpdatedEvent{Session: dto.SessionDTO{
		ID: "sid-1", UserID: "7", FullName: "Lê C", RoleName: dto.RoleMember, Token: "secret",
	}})
	waitBus(t, bus)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "sid-1", notifier.sent[0].key)
	assert.Equal(t, websocket.TypeSessionUpdated, notifier.sent[0].kind)
	profile := notifier.sent[0].payload.(dto.UserProfileDTO)
	assert.Equal(t, "Lê C", profile.FullName)
}

func TestSessionListener_EndClosesChat(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	notifier := &fakeNotifier{}
	chats := &fakeChats{}
	NewSessionListener(notifier, chats, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.SessionEndedEvent{SessionID: "sid-9"})
	waitBus(t, bus)

	assert.Equal(t, []string{"sid-9"}, chats.removed)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, websocket.TypeSessionEnded, notifier.sent[0].kind)
}

type fakeAudit struct {
	enabled bool
	mu      sync.Mutex
	events  []events.ResourceChangedEvent
}

func (a *fakeAudit) Enabled() bool { return a.enabled }

func (a *fakeAudit) Record(_ context.Context, e events.ResourceChangedEvent) error {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
	return nil
}

func (a *fakeAudit) List(context.Context, types.Filter, string) ([]dto.AuditEntryDTO, types.Pagination, error) {
	return nil, types.Pagination{}, nil
}

func TestAuditListener(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	audit := &fakeAudit{enabled: true}
	NewAuditListener(audit, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.ResourceChangedEvent{Resource: "packages", Action: "delete", RecordID: "3"})
	waitBus(t, bus)

	require.Len(t, audit.events, 1)
	assert.Equal(t, "3", audit.events[0].RecordID)
}

func TestAuditListener_DisabledDoesNotSubscribe(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	audit := &fakeAudit{}
	NewAuditListener(audit, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.ResourceChangedEvent{Resource: "packages"})
	waitBus(t, bus)
	assert.Empty(t, audit.events)
}
