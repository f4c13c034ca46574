// Package session описывает клиентский сценарий видеосессии:
// проверка устройств, обратный отсчёт, звонок, завершение и отзыв.
// Сервер этим состоянием не управляет, сохраняется только отзыв.
package session

import (
	"errors"
	"fmt"
	"strings"
)

type State string

const (
	StateIdle              State = "idle"
	StateDeviceCheck       State = "device-check"
	StateCountdown         State = "countdown"
	StateLive              State = "live"
	StateEnded             State = "ended"
	StateFeedbackSubmitted State = "feedback-submitted"
)

type Device string

const (
	DeviceMicrophone Device = "microphone"
	DeviceCamera     Device = "camera"
	DeviceNetwork    Device = "network"
)

// DefaultCountdown секунд до того, как станет доступна кнопка "Join"
const DefaultCountdown = 10

const (
	maxTags      = 10
	maxTagLength = 32
	maxComment   = 2000
)

var (
	ErrInvalidTransition        = errors.New("transition is not allowed")
	ErrJoinDisabled             = errors.New("join is disabled until devices are ready and countdown is over")
	ErrInvalidRating            = errors.New("rating must be between 1 and 5")
	ErrInvalidFeedback          = errors.New("invalid feedback")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted")
)

// Feedback оценка сессии, отправляется один раз
type Feedback struct {
	Rating  int
	Tags    []string
	Comment string
}

// Validate проверяет оценку и ограничения на теги и комментарий
func (f Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	if len(f.Tags) > maxTags {
		return fmt.Errorf("%w: at most %d tags", ErrInvalidFeedback, maxTags)
	}
	for _, tag := range f.Tags {
		if strings.TrimSpace(tag) == "" || len([]rune(tag)) > maxTagLength {
			return fmt.Errorf("%w: tag %q", ErrInvalidFeedback, tag)
		}
	}
	if len([]rune(f.Comment)) > maxComment {
		return fmt.Errorf("%w: comment is too long", ErrInvalidFeedback)
	}
	return nil
}

// Session снимок состояния. Значение, а не указатель: Transition возвращает новый снимок.
type Session struct {
	State State

	MicReady     bool
	CameraReady  bool
	NetworkReady bool

	Countdown      int // секунд осталось в countdown
	ElapsedSeconds int // секунд в live

	MicOn    bool
	CameraOn bool

	Feedback *Feedback
}

// New создаёт сессию в состоянии idle
func New() Session {
	return Session{State: StateIdle}
}

// DevicesReady все устройства готовы
func (s Session) DevicesReady() bool {
	return s.MicReady && s.CameraReady && s.NetworkReady
}

// CanJoin доступна ли кнопка "Join"
func (s Session) CanJoin() bool {
	return s.State == StateCountdown && s.DevicesReady() && s.Countdown == 0
}

// Event событие сценария
type Event interface {
	isEvent()
}

type (
	// Start открыть экран проверки устройств. Countdown <= 0 значит DefaultCountdown.
	Start struct{ Countdown int }
	// DeviceReady устройство прошло проверку
	DeviceReady struct{ Device Device }
	// Tick прошла одна секунда
	Tick struct{}
	// Join войти в звонок
	Join struct{}
	// ToggleMic переключить микрофон (локально)
	ToggleMic struct{}
	// ToggleCamera переключить камеру (локально)
	ToggleCamera struct{}
	// End завершить сессию
	End struct{}
	// SubmitFeedback отправить отзыв
	SubmitFeedback struct{ Feedback Feedback }
)

func (Start) isEvent()          {}
func (DeviceReady) isEvent()    {}
func (Tick) isEvent()           {}
func (Join) isEvent()           {}
func (ToggleMic) isEvent()      {}
func (ToggleCamera) isEvent()   {}
func (End) isEvent()            {}
func (SubmitFeedback) isEvent() {}

// Transition применяет событие к снимку. Исходный снимок не меняется,
// при ошибке возвращается он же.
func Transition(s Session, e Event) (Session, error) {
	next := s

	switch ev := e.(type) {
	case Start:
		if s.State != StateIdle {
			return s, invalid(s.State, e)
		}
		next.State = StateDeviceCheck
		next.Countdown = ev.Countdown
		if next.Countdown <= 0 {
			next.Countdown = DefaultCountdown
		}

	case DeviceReady:
		if s.State != StateDeviceCheck {
			return s, invalid(s.State, e)
		}
		switch ev.Device {
		case DeviceMicrophone:
			next.MicReady = true
		case DeviceCamera:
			next.CameraReady = true
		case DeviceNetwork:
			next.NetworkReady = true
		default:
			return s, fmt.Errorf("%w: unknown device %q", ErrInvalidTransition, ev.Device)
		}
		if next.DevicesReady() {
			next.State = StateCountdown
		}

	case Tick:
		switch s.State {
		case StateCountdown:
			if next.Countdown > 0 {
				next.Countdown--
			}
		case StateLive:
			next.ElapsedSeconds++
		}

	case Join:
		if s.State != StateCountdown {
			return s, invalid(s.State, e)
		}
		if !s.CanJoin() {
			return s, ErrJoinDisabled
		}
		next.State = StateLive
		next.ElapsedSeconds = 0
		next.MicOn = true
		next.CameraOn = true

	case ToggleMic:
		if s.State != StateLive {
			return s, invalid(s.State, e)
		}
		next.MicOn = !s.MicOn

	case ToggleCamera:
		if s.State != StateLive {
			return s, invalid(s.State, e)
		}
		next.CameraOn = !s.CameraOn

	case End:
		if s.State != StateLive {
			return s, invalid(s.State, e)
		}
		next.State = StateEnded
		next.MicOn = false
		next.CameraOn = false

	case SubmitFeedback:
		if s.State == StateFeedbackSubmitted {
			return s, ErrFeedbackAlreadySubmitted
		}
		if s.State != StateEnded {
			return s, invalid(s.State, e)
		}
		if err := ev.Feedback.Validate(); err != nil {
			return s, err
		}
		fb := ev.Feedback
		fb.Tags = append([]string(nil), ev.Feedback.Tags...)
		next.Feedback = &fb
		next.State = StateFeedbackSubmitted

	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, e)
	}

	return next, nil
}

func invalid(from State, e Event) error {
	return fmt.Errorf("%w: %T in state %s", ErrInvalidTransition, e, from)
}
