package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub управляет подключениями и адресной отправкой сообщений. Ключ
// подключения - id сессии (или гостевой cookie чата).
type Hub struct {
	clients    map[*Client]bool
	keyClients map[string][]*Client
	broadcast  chan []byte
	Register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		keyClients: make(map[string][]*Client),
		broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.keyClients[client.Key] = append(h.keyClients[client.Key], client)
			h.mu.Unlock()
			h.logger.Debug("Клиент зарегистрирован", zap.String("key", client.Key))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Debug("Клиент отсоединен", zap.String("key", client.Key))
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Join регистрирует клиента; false, если хаб уже остановлен.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove вызывается под h.mu.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.keyClients[client.Key]
	for i, c := range clients {
		if c == client {
			h.keyClients[client.Key] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.keyClients[client.Key]) == 0 {
		delete(h.keyClients, client.Key)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.remove(client)
	}
}

// Connected - есть ли хотя бы одно подключение с этим ключом.
func (h *Hub) Connected(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.keyClients[key]) > 0
}

// SendMessageToUser отправляет конверт всем подключениям ключа. Медленный
// клиент с переполненным буфером пропускает сообщение.
func (h *Hub) SendMessageToUser(key string, payload interface{}, messageType string) error {
	messageBytes, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.keyClients[key]
	if len(clients) == 0 {
		h.logger.Debug("Нет активных соединений", zap.String("key", key), zap.String("type", messageType))
		return nil
	}
	for _, client := range clients {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Буфер клиента переполнен, сообщение пропущено", zap.String("key", key))
		}
	}
	return nil
}

// Broadcast - сообщение всем подключенным.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	messageBytes, err := json.Marshal(Envelope{Type: messageType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- messageBytes:
	case <-h.done:
	}
	return nil
}
