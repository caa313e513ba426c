package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/chat"
	"fitness-portal/internal/dto"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/utils"
	appwebsocket "fitness-portal/pkg/websocket"
)

const chatCookie = "chat_id"

// ChatController - виджет чата: WebSocket /chat/ws и JSON-история.
// Ключ разговора - id сессии, у гостя - cookie chat_id.
type ChatController struct {
	hub      *appwebsocket.Hub
	chats    *chat.Registry
	upgrader websocket.Upgrader
	responder
}

func NewChatController(hub *appwebsocket.Hub, chats *chat.Registry, logger *zap.Logger) *ChatController {
	return &ChatController{
		hub:   hub,
		chats: chats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		responder: responder{logger: logger},
	}
}

// chatKey возвращает ключ разговора и, для нового гостя, cookie, которую
// нужно отдать браузеру.
func chatKey(c echo.Context) (string, *http.Cookie) {
	if session := dto.SessionFromContext(c.Request().Context()); session != nil {
		return session.ID, nil
	}
	if cookie, err := c.Cookie(chatCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return "guest:" + cookie.Value, nil
		}
	}
	id := uuid.NewString()
	return "guest:" + id, &http.Cookie{
		Name:     chatCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (ctrl *ChatController) key(c echo.Context) string {
	key, cookie := chatKey(c)
	if cookie != nil {
		c.SetCookie(cookie)
	}
	return key
}

func chatError(err error) error {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return badRequest("Tin nhắn không được để trống", err)
	case errors.Is(err, chat.ErrClosed):
		return apperrors.NewHttpError(http.StatusConflict, "Cuộc trò chuyện đã kết thúc", err, nil)
	}
	return err
}

// ChatMessage - сообщение чата в том виде, в каком его получает браузер.
func ChatMessage(msg chat.Message) dto.ChatMessageDTO {
	sender := "support"
	if msg.IsUser {
		sender = "user"
	}
	return dto.ChatMessageDTO{ID: msg.ID, Sender: sender, Text: msg.Text, CreatedAt: msg.Timestamp}
}

func history(conv *chat.Conversation) []dto.ChatMessageDTO {
	messages := conv.Messages()
	out := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, ChatMessage(m))
	}
	return out
}

// ServeWs: после подключения клиент получает историю, затем каждое
// входящее {"text": "..."} отправляется в разговор.
func (ctrl *ChatController) ServeWs(c echo.Context) error {
	key, cookie := chatKey(c)

	// заголовки ответа 101 берутся только из responseHeader
	var header http.Header
	if cookie != nil {
		header = http.Header{}
		header.Add("Set-Cookie", cookie.String())
	}

	conn, err := ctrl.upgrader.Upgrade(c.Response(), c.Request(), header)
	if err != nil {
		ctrl.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(ctrl.hub, conn, key)
	if !ctrl.hub.Join(client) {
		conn.Close()
		return nil
	}
	go client.WritePump()

	conv := ctrl.chats.Get(key)
	if err := ctrl.hub.SendMessageToUser(key, history(conv), appwebsocket.TypeChatHistory); err != nil {
		ctrl.logger.Warn("WebSocket: не удалось отправить историю", zap.Error(err))
	}

	go client.ReadPump(func(data []byte) {
		var payload dto.SendChatMessageDTO
		if err := json.Unmarshal(data, &payload); err != nil {
			_ = ctrl.hub.SendMessageToUser(key, map[string]string{"message": "Tin nhắn không hợp lệ"}, appwebsocket.TypeError)
			return
		}
		msg, err := ctrl.chats.Get(key).Send(payload.Text)
		if err != nil {
			_ = ctrl.hub.SendMessageToUser(key, map[string]string{"message": utils.UserMessage(chatError(err))}, appwebsocket.TypeError)
			return
		}
		_ = ctrl.hub.SendMessageToUser(key, ChatMessage(msg), appwebsocket.TypeChatMessage)
	})

	ctrl.logger.Info("WebSocket: клиент подключен", zap.String("key", key))
	return nil
}

func (ctrl *ChatController) Messages(c echo.Context) error {
	conv := ctrl.chats.Get(ctrl.key(c))
	return utils.SuccessResponse(c, history(conv), "Thành công", http.StatusOK)
}

// Send - отправка без WebSocket; ответ поддержки придет позже в историю
// или в открытый сокет.
func (ctrl *ChatController) Send(c echo.Context) error {
	var payload dto.SendChatMessageDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, badRequest("Tin nhắn không hợp lệ", err), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	key := ctrl.key(c)
	msg, err := ctrl.chats.Get(key).Send(payload.Text)
	if err != nil {
		return utils.ErrorResponse(c, chatError(err), ctrl.logger)
	}
	_ = ctrl.hub.SendMessageToUser(key, ChatMessage(msg), appwebsocket.TypeChatMessage)
	return utils.SuccessResponse(c, ChatMessage(msg), "Đã gửi", http.StatusCreated)
}
