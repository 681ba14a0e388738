package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"marketplace/internal/adapters/out/channels"
	"marketplace/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Senders are the side channels built from the configuration, with the
// connections to close on shutdown.
type Senders struct {
	Senders []ports.ChannelSender
	closers []io.Closer
}

func (s *Senders) Close() error {
	var errList []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errList = append(errList, s.closers[i].Close())
	}
	return errors.Join(errList...)
}

// BuildSenders connects every enabled side channel. A channel without
// connection settings is skipped with a log line; a failing connection is an error.
func BuildSenders(cfg Config, logger *slog.Logger) (*Senders, error) {
	out := &Senders{}

	if len(cfg.KafkaBrokers) > 0 {
		if cfg.Channels.Email {
			w := channels.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaEmailTopic)
			out.closers = append(out.closers, w)
			out.Senders = append(out.Senders, channels.NewKafkaEmailSender(w))
		}
		if cfg.Channels.SMS {
			w := channels.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaSMSTopic)
			out.closers = append(out.closers, w)
			out.Senders = append(out.Senders, channels.NewKafkaSMSSender(w))
		}
	} else if cfg.Channels.Email || cfg.Channels.SMS {
		logger.Warn("KAFKA_BROKERS not set, email and sms channels disabled")
	}

	if cfg.Channels.Push {
		if cfg.RabbitMQURL == "" {
			logger.Warn("RABBITMQ_URL not set, push channel disabled")
		} else {
			conn, err := amqp.Dial(cfg.RabbitMQURL)
			if err != nil {
				_ = out.Close()
				return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
			}
			out.closers = append(out.closers, conn)
			ch, err := conn.Channel()
			if err != nil {
				_ = out.Close()
				return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
			}
			if err = channels.DeclarePushExchange(ch, cfg.RabbitMQPushExchange); err != nil {
				_ = out.Close()
				return nil, err
			}
			out.Senders = append(out.Senders, channels.NewRabbitPushSender(ch, cfg.RabbitMQPushExchange))
		}
	}

	if cfg.Channels.Telegram {
		if cfg.TelegramBotToken == "" {
			logger.Warn("TELEGRAM_BOT_TOKEN not set, telegram channel disabled")
		} else {
			bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
			if err != nil {
				_ = out.Close()
				return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
			}
			out.Senders = append(out.Senders, channels.NewTelegramSender(bot))
		}
	}

	names := make([]string, 0, len(out.Senders))
	for _, s := range out.Senders {
		names = append(names, string(s.Channel()))
	}
	logger.Info("side channels configured", "channels", names)
	return out, nil
}
