package notify

import (
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/alert"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
	"gopkg.in/telebot.v3"
)

// TelegramNotifier implements the alert.Notifier interface using the
// gopkg.in/telebot.v3 library. Alerts are best-effort: delivery failures are
// logged and swallowed so they never interrupt a processing run.
type TelegramNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

// NewTelegramNotifier builds a notifier for the given bot token and chat.
// Returns a no-op notifier when the token is empty.
func NewTelegramNotifier(token string, chatID int64) (alert.Notifier, error) {
	if token == "" || chatID == 0 {
		logger.Log.Warn("TELEGRAM_TOKEN or ALERT_CHAT_ID not set, alerts disabled")
		return alert.Nop{}, nil
	}

	pref := telebot.Settings{
		Token:   token,
		Offline: false,
		Poller:  &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Send delivers a titled alert message to the configured chat.
func (n *TelegramNotifier) Send(title, body string) error {
	recipient := &telebot.User{ID: n.chatID}
	text := fmt.Sprintf("%s\n\n%s", title, body)
	if _, err := n.bot.Send(recipient, text); err != nil {
		logger.Log.Errorf("Failed to send Telegram alert %q: %v", title, err)
		return err
	}
	logger.Log.Infof("Sent alert: %s", title)
	return nil
}
