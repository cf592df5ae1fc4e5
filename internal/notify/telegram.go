package notify

import (
	"fmt"

	"sharik/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender доставляет уведомления пользователям в Telegram.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	logger *zerolog.Logger
}

func NewTelegramSender(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramSender, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	botAPI.Debug = cfg.Debug

	logger.Info().Str("bot", botAPI.Self.UserName).Msg("telegram sender authorized")

	return &TelegramSender{bot: botAPI, logger: logger}, nil
}

func (s *TelegramSender) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
