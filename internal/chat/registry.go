package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry - разговоры по ключу (id сессии или гостевой cookie).
type Registry struct {
	mu      sync.Mutex
	convs   map[string]*entry
	delay   time.Duration
	idle    time.Duration
	now     func() time.Time
	deliver func(key string, msg Message)
	logger  *zap.Logger
}

type entry struct {
	conv     *Conversation
	lastSeen time.Time
}

// NewRegistry: deliver получает каждый ответ поддержки (например, для
// отправки в WebSocket). Разговоры без активности дольше idle закрываются.
func NewRegistry(delay, idle time.Duration, deliver func(key string, msg Message), logger *zap.Logger) *Registry {
	return &Registry{
		convs:   make(map[string]*entry),
		delay:   delay,
		idle:    idle,
		now:     time.Now,
		deliver: deliver,
		logger:  logger,
	}
}

// Get возвращает разговор ключа, создавая его при первом обращении.
func (r *Registry) Get(key string) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evict(now)

	if e, ok := r.convs[key]; ok {
		e.lastSeen = now
		return e.conv
	}

	conv := NewConversation(r.delay, WithOnReply(func(msg Message) {
		if r.deliver != nil {
			r.deliver(key, msg)
		}
	}))
	r.convs[key] = &entry{conv: conv, lastSeen: now}
	r.logger.Debug("Создан разговор", zap.String("key", key))
	return conv
}

// Remove закрывает и забывает разговор.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.convs[key]; ok {
		e.conv.Close()
		delete(r.convs, key)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.convs)
}

// evict вызывается под r.mu.
func (r *Registry) evict(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for key, e := range r.convs {
		if now.Sub(e.lastSeen) > r.idle && e.conv.Pending() == 0 {
			e.conv.Close()
			delete(r.convs, key)
		}
	}
}
