package notify

import (
	"encoding/json"
	"fmt"

	"braidzworld/internal/events"
	"braidzworld/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier forwards dashboard events to the owner's chat.
// It is optional: a nil notifier is safe to ignore.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

func NewTelegram(botToken string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// Subscribe wires the notifier to the event bus.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingConfirmed, n.onBookingEvent("✅ Booking confirmed"))
	bus.Subscribe(events.EventBookingCancelled, n.onBookingEvent("❌ Booking cancelled"))
	bus.Subscribe(events.EventTimeBlocked, n.onBlockEvent("🚫 Time blocked"))
	bus.Subscribe(events.EventTimeUnblocked, n.onBlockEvent("♻️ Time unblocked"))
}

func (n *TelegramNotifier) onBookingEvent(title string) events.EventHandler {
	return func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			n.logger.Error().Err(err).Str("event", e.Type).Msg("failed to decode event payload")
			return err
		}
		text := fmt.Sprintf("%s\n\n%s %s\n%s (%s)\n%s",
			title, p.Date, p.Time, p.UserName, p.UserEmail, p.Service)
		n.send(text)
		return nil
	}
}

func (n *TelegramNotifier) onBlockEvent(title string) events.EventHandler {
	return func(e *events.Event) error {
		var p events.BlockedTimeEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			n.logger.Error().Err(err).Str("event", e.Type).Msg("failed to decode event payload")
			return err
		}
		slot := p.Time
		if p.IsFullDay {
			slot = models.FullDayLabel
		}
		text := fmt.Sprintf("%s\n\n%s %s\n%s", title, p.Date, slot, p.Reason)
		n.send(text)
		return nil
	}
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("failed to send telegram notification")
	}
}
