package models

import "github.com/google/uuid"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is one user-visible message produced by a cart or checkout
// operation. The UI drains pending notices with each API response.
type Notice struct {
	ID      string      `json:"id"`
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

func NewNotice(level NoticeLevel, title, message string) Notice {
	return Notice{
		ID:      uuid.New().String(),
		Level:   level,
		Title:   title,
		Message: message,
	}
}
