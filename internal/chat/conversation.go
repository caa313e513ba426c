// Package chat - виджет чата поддержки: пользователь пишет, через
// фиксированную задержку приходит один из заготовленных ответов.
package chat

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage = errors.New("пустое сообщение")
	ErrClosed       = errors.New("разговор закрыт")
)

// DefaultReplies - заготовленные ответы поддержки.
var DefaultReplies = []string{
	"Cảm ơn bạn đã liên hệ! Nhân viên của chúng tôi sẽ phản hồi trong giây lát.",
	"Bạn có thể xem bảng giá các gói tập tại mục Gói tập.",
	"Phòng tập mở cửa từ 5:30 đến 22:00 tất cả các ngày trong tuần.",
	"Vui lòng để lại số điện thoại, chúng tôi sẽ gọi lại cho bạn.",
	"Bạn muốn đăng ký buổi tập thử miễn phí không?",
}

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation - упорядоченный список сообщений, только добавление.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
	pending  map[string]*time.Timer
	closed   bool

	delay   time.Duration
	replies []string
	rnd     *rand.Rand
	now     func() time.Time
	onReply func(Message)
}

type Option func(*Conversation)

// WithOnReply - вызывается (вне блокировки) после добавления ответа.
func WithOnReply(fn func(Message)) Option {
	return func(c *Conversation) { c.onReply = fn }
}

func WithReplies(replies []string) Option {
	return func(c *Conversation) { c.replies = replies }
}

func WithRand(rnd *rand.Rand) Option {
	return func(c *Conversation) { c.rnd = rnd }
}

func NewConversation(delay time.Duration, opts ...Option) *Conversation {
	c := &Conversation{
		pending: make(map[string]*time.Timer),
		delay:   delay,
		replies: DefaultReplies,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send сразу добавляет сообщение пользователя и планирует ответ через delay.
func (c *Conversation) Send(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Message{}, ErrClosed
	}

	msg := Message{ID: uuid.NewString(), Text: text, IsUser: true, Timestamp: c.now()}
	c.messages = append(c.messages, msg)

	token := msg.ID
	c.pending[token] = time.AfterFunc(c.delay, func() { c.reply(token) })
	return msg, nil
}

func (c *Conversation) reply(token string) {
	c.mu.Lock()
	if _, ok := c.pending[token]; !ok || c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.pending, token)

	msg := Message{
		ID:        uuid.NewString(),
		Text:      c.replies[c.rnd.Intn(len(c.replies))],
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, msg)
	onReply := c.onReply
	c.mu.Unlock()

	if onReply != nil {
		onReply(msg)
	}
}

// Messages - копия истории.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Pending - сколько ответов еще ожидается.
func (c *Conversation) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close отменяет ожидающие ответы; история остается доступной.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for token, timer := range c.pending {
		timer.Stop()
		delete(c.pending, token)
	}
}
