package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunnerConfig настройки имитации
type RunnerConfig struct {
	// TickInterval одна "секунда" сценария
	TickInterval time.Duration
	// Countdown длина обратного отсчёта в тиках
	Countdown int
	// ReadyAfter через сколько тиков проверки устройство становится готовым
	ReadyAfter map[Device]int
}

// DefaultRunnerConfig реальная секунда, устройства готовы за 1-3 секунды
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		TickInterval: time.Second,
		Countdown:    DefaultCountdown,
		ReadyAfter: map[Device]int{
			DeviceNetwork:    1,
			DeviceMicrophone: 2,
			DeviceCamera:     3,
		},
	}
}

// Runner гоняет сценарий по таймеру: имитирует проверку устройств,
// отсчитывает countdown и длительность звонка. Действия пользователя - через Send.
type Runner struct {
	mu         sync.Mutex
	sess       Session
	cfg        RunnerConfig
	checkTicks int
	onChange   func(Session)
	logger     *zap.Logger
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
	started    bool
}

// NewRunner создаёт раннер. onChange вызывается после каждого изменения снимка, может быть nil.
func NewRunner(cfg RunnerConfig, onChange func(Session), logger *zap.Logger) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if onChange == nil {
		onChange = func(Session) {}
	}
	return &Runner{
		sess:     New(),
		cfg:      cfg,
		onChange: onChange,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start переводит сессию в device-check и запускает таймер
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return invalid(r.sess.State, Start{})
	}
	if err := r.applyLocked(Start{Countdown: r.cfg.Countdown}); err != nil {
		r.mu.Unlock()
		return err
	}
	r.started = true
	r.mu.Unlock()

	go r.loop(ctx)
	return nil
}

// Send применяет действие пользователя
func (r *Runner) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyLocked(e)
}

// Snapshot текущее состояние
func (r *Runner) Snapshot() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess
}

// Stop останавливает таймер и ждёт выхода из цикла
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.done
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if r.tick() {
				return
			}
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick возвращает true, когда таймер больше не нужен
func (r *Runner) tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.sess.State {
	case StateDeviceCheck:
		r.checkTicks++
		for _, device := range []Device{DeviceNetwork, DeviceMicrophone, DeviceCamera} {
			if r.checkTicks >= r.cfg.ReadyAfter[device] && !r.isReady(device) {
				if err := r.applyLocked(DeviceReady{Device: device}); err != nil {
					r.logger.Error("Device readiness failed", zap.String("device", string(device)), zap.Error(err))
				}
			}
		}
	case StateCountdown, StateLive:
		if err := r.applyLocked(Tick{}); err != nil {
			r.logger.Error("Tick failed", zap.Error(err))
		}
	case StateEnded, StateFeedbackSubmitted:
		return true
	}
	return false
}

func (r *Runner) isReady(d Device) bool {
	switch d {
	case DeviceMicrophone:
		return r.sess.MicReady
	case DeviceCamera:
		return r.sess.CameraReady
	default:
		return r.sess.NetworkReady
	}
}

func (r *Runner) applyLocked(e Event) error {
	next, err := Transition(r.sess, e)
	if err != nil {
		return err
	}
	if next.State != r.sess.State {
		r.logger.Debug("Session state changed",
			zap.String("from", string(r.sess.State)),
			zap.String("to", string(next.State)),
		)
	}
	r.sess = next
	r.onChange(next)
	return nil
}
