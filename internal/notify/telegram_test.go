package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	return &models.Message{}, f.err
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:              7,
		DateTime:        time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		DurationMinutes: 45,
		SessionType:     model.SessionTypeVideo,
		MeetingLink:     "https://meet.example/abc",
		Notes:           "ICU <night> shifts",
	}
}

func TestTelegramNotifier_BookingCreated(t *testing.T) {
	s := &fakeSender{}
	n := newTelegramNotifier(s, time.UTC, zap.NewNop())
	chatID := int64(42)

	n.BookingCreated(context.Background(), testBooking(), &model.User{ID: 3, TelegramChatID: &chatID})
	n.Wait()

	require.Len(t, s.sent, 1)
	msg := s.sent[0]
	assert.Equal(t, chatID, msg.ChatID)
	assert.Equal(t, models.ParseModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "02.03.2026 09:30")
	assert.Contains(t, msg.Text, "45 мин")
	assert.Contains(t, msg.Text, "ICU &lt;night&gt; shifts")
}

func TestTelegramNotifier_SkipsMentorWithoutChat(t *testing.T) {
	s := &fakeSender{}
	n := newTelegramNotifier(s, time.UTC, zap.NewNop())

	n.BookingCancelled(context.Background(), testBooking(), &model.User{ID: 3})
	n.BookingCancelled(context.Background(), testBooking(), nil)
	n.Wait()

	assert.Empty(t, s.sent)
}

func TestTelegramNotifier_SendErrorIsSwallowed(t *testing.T) {
	s := &fakeSender{err: errors.New("forbidden: bot was blocked by the user")}
	n := newTelegramNotifier(s, time.UTC, zap.NewNop())
	chatID := int64(42)

	assert.NotPanics(t, func() {
		n.BookingCancelled(context.Background(), testBooking(), &model.User{ID: 3, TelegramChatID: &chatID})
		n.Wait()
	})
	assert.Len(t, s.sent, 1)
}
