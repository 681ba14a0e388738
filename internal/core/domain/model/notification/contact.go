package notification

import (
	"strconv"

	"marketplace/internal/core/domain/model/kernel"
)

// Contact holds the addresses a user can be reached at. Empty fields disable the channel.
type Contact struct {
	UserID         kernel.UUID
	Email          string
	Phone          string
	PushToken      string
	TelegramChatID int64
}

// Address returns the recipient address for a side channel and whether it is set.
func (c Contact) Address(channel Channel) (string, bool) {
	switch channel {
	case Email:
		return c.Email, c.Email != ""
	case SMS:
		return c.Phone, c.Phone != ""
	case Push:
		return c.PushToken, c.PushToken != ""
	case Telegram:
		return strconv.FormatInt(c.TelegramChatID, 10), c.TelegramChatID != 0
	default:
		return "", false
	}
}
