package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-booking/internal/usecase/sweep"
)

const lockKey = "barber-booking:sweep:lock"

// Sweeper dispara a varredura em intervalo fixo. Um lock no Redis
// garante uma única varredura ativa mesmo com réplicas; como os passos
// são idempotentes, indisponibilidade do Redis degrada para "roda
// assim mesmo" em vez de parar a reconciliação.
type Sweeper struct {
	uc       *sweep.Sweep
	rdb      *redis.Client
	logger   *slog.Logger
	interval time.Duration
}

func NewSweeper(
	uc *sweep.Sweep,
	rdb *redis.Client,
	logger *slog.Logger,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		uc:       uc,
		rdb:      rdb,
		logger:   logger,
		interval: interval,
	}
}

// Run bloqueia até o contexto encerrar. Ticks são invocações
// independentes: um tick lento atrasa, mas nunca aninha o próximo.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick executa uma varredura, se o lock deixar.
func (s *Sweeper) Tick(ctx context.Context) {
	if !s.acquireLock(ctx) {
		return
	}

	started := time.Now()
	s.uc.Execute(ctx)
	s.logger.Info("sweep finished", "took", time.Since(started).String())
}

func (s *Sweeper) acquireLock(ctx context.Context) bool {
	if s.rdb == nil {
		return true
	}

	// TTL um pouco menor que o intervalo: o lock de um tick morto não
	// segura o tick seguinte.
	ttl := s.interval - 30*time.Second
	if ttl <= 0 {
		ttl = s.interval / 2
	}

	ok, err := s.rdb.SetNX(ctx, lockKey, time.Now().Unix(), ttl).Result()
	if err != nil {
		s.logger.Warn("sweep lock unavailable, running anyway", "err", err)
		return true
	}
	if !ok {
		s.logger.Debug("sweep lock held elsewhere, skipping tick")
	}
	return ok
}
