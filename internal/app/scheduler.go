package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SlotHousekeeper выключает слоты, время которых прошло
type SlotHousekeeper interface {
	DeactivatePastSlots(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	slots    SlotHousekeeper
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(slots SlotHousekeeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		slots:    slots,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runHousekeepingTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) runHousekeepingTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.deactivatePastSlots(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deactivatePastSlots(ctx)
		case <-s.stopChan:
			s.logger.Info("Housekeeping task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Housekeeping task cancelled")
			return
		}
	}
}

func (s *Scheduler) deactivatePastSlots(ctx context.Context) {
	affected, err := s.slots.DeactivatePastSlots(ctx)
	if err != nil {
		s.logger.Error("Failed to deactivate past slots", zap.Error(err))
		return
	}
	if affected > 0 {
		s.logger.Info("Past slots deactivated", zap.Int64("count", affected))
	}
}
