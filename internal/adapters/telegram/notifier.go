package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/models"
)

// Notifier forwards trade alerts to a Telegram chat. It implements
// push.Dispatcher, so the pipeline treats it like any other
// best-effort push channel.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates new Telegram notifier
func NewNotifier(botToken string, chatID int64) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
	)

	return &Notifier{
		api:    bot,
		chatID: chatID,
	}, nil
}

// Dispatch sends one alert message to the configured chat
func (n *Notifier) Dispatch(ctx context.Context, alert models.Alert) error {
	msg := tgbotapi.NewMessage(n.chatID, formatAlert(alert))
	msg.ParseMode = "Markdown"

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}

	return nil
}

// formatAlert renders one alert as a Markdown message
func formatAlert(alert models.Alert) string {
	emoji := "📈"
	if alert.Action == models.ActionSell {
		emoji = "📉"
	}

	return fmt.Sprintf("%s *%s* %s\n%s\nsentiment: %.2f",
		emoji,
		alert.Action,
		strings.Join(alert.Tickers, ", "),
		alert.Title,
		alert.Sentiment,
	)
}
