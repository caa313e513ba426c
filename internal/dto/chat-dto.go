package dto

import "time"

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type SendChatMessageDTO struct {
	Text string `json:"text" form:"text" validate:"notblank,max=1000"`
}
