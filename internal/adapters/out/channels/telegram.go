package channels

import (
	"context"
	"fmt"
	"strconv"

	"marketplace/internal/core/domain/model/notification"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the part of *tgbotapi.BotAPI the telegram sender uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender messages a user's linked chat.
type TelegramSender struct {
	bot Bot
}

func NewTelegramSender(bot Bot) *TelegramSender {
	return &TelegramSender{bot: bot}
}

func (s *TelegramSender) Channel() notification.Channel {
	return notification.Telegram
}

// Send posts the message to the chat id given as recipient. The bot API call does
// not take a context.
func (s *TelegramSender) Send(_ context.Context, recipient string, msg notification.Message) error {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", recipient, err)
	}

	text := msg.Text
	if msg.Title != "" {
		text = msg.Title + "\n" + msg.Text
	}
	if _, err = s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
