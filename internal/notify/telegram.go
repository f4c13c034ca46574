package notify

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// sender часть *bot.Bot, которая нужна для уведомлений
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier шлёт ментору сообщения о новых и отменённых бронированиях.
// Отправка идёт в фоне, ошибка только логируется.
type TelegramNotifier struct {
	bot      sender
	location *time.Location
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewTelegramNotifier создаёт бота без запроса getMe при старте
func NewTelegramNotifier(token string, location *time.Location, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegramNotifier(b, location, logger), nil
}

func newTelegramNotifier(s sender, location *time.Location, logger *zap.Logger) *TelegramNotifier {
	if location == nil {
		location = time.UTC
	}
	return &TelegramNotifier{
		bot:      s,
		location: location,
		logger:   logger,
	}
}

func (n *TelegramNotifier) BookingCreated(_ context.Context, booking *model.Booking, mentor *model.User) {
	text := fmt.Sprintf(
		"📅 <b>Новое бронирование</b>\n\n🕐 %s (%d мин)\n📍 %s\n🔗 %s",
		booking.DateTime.In(n.location).Format("02.01.2006 15:04"),
		booking.DurationMinutes,
		sessionTypeLabel(booking.SessionType),
		html.EscapeString(booking.MeetingLink),
	)
	if booking.Notes != "" {
		text += "\n\n💬 " + html.EscapeString(booking.Notes)
	}
	n.send(mentor, booking.ID, text)
}

func (n *TelegramNotifier) BookingCancelled(_ context.Context, booking *model.Booking, mentor *model.User) {
	text := fmt.Sprintf(
		"❌ <b>Бронирование отменено</b>\n\n🕐 %s",
		booking.DateTime.In(n.location).Format("02.01.2006 15:04"),
	)
	n.send(mentor, booking.ID, text)
}

// Wait ждёт завершения отправок (для graceful shutdown)
func (n *TelegramNotifier) Wait() {
	n.wg.Wait()
}

func (n *TelegramNotifier) send(mentor *model.User, bookingID int64, text string) {
	if mentor == nil || mentor.TelegramChatID == nil {
		return
	}
	chatID := *mentor.TelegramChatID

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// Контекст запроса к этому моменту может быть уже отменён
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			n.logger.Error("Failed to notify mentor",
				zap.Int64("booking_id", bookingID),
				zap.Int64("mentor_id", mentor.ID),
				zap.Error(err),
			)
			return
		}
		n.logger.Debug("Mentor notified", zap.Int64("booking_id", bookingID))
	}()
}

func sessionTypeLabel(t model.SessionType) string {
	switch t {
	case model.SessionTypeVideo:
		return "Видео"
	case model.SessionTypeAudio:
		return "Аудио"
	case model.SessionTypeInPerson:
		return "Очно"
	default:
		return string(t)
	}
}
