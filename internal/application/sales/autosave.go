package sales

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Autosaver guarda periódicamente el borrador de una sesión. Los guardados los ejecuta saveFn, que
// ya está protegido con singleflight y omite revisiones sin cambios.
type Autosaver struct {
	interval time.Duration
	saveFn   func(ctx context.Context) (bool, error)
	log      zerolog.Logger

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewAutosaver construye el autoguardado; Start lo pone a correr.
func NewAutosaver(interval time.Duration, saveFn func(ctx context.Context) (bool, error), log zerolog.Logger) *Autosaver {
	return &Autosaver{interval: interval, saveFn: saveFn, log: log}
}

// Start lanza la goroutine del temporizador. Sin intervalo no hace nada.
func (a *Autosaver) Start(parent context.Context) {
	if a.interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.loop(ctx)
}

func (a *Autosaver) loop(ctx context.Context) {
	defer close(a.done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			saved, err := a.saveFn(ctx)
			switch {
			case err == nil && saved:
				a.log.Debug().Msg("autoguardado de borrador")
			case err == nil:
			case errors.Is(err, context.Canceled):
				return
			case errors.Is(err, domain.ErrValidation):
				a.log.Debug().Err(err).Msg("autoguardado omitido")
			default:
				a.log.Warn().Err(err).Msg("autoguardado fallido")
			}
		}
	}
}

// Stop cancela el temporizador y espera a que termine un guardado en curso. Es idempotente.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		if a.cancel == nil {
			return
		}
		a.cancel()
		<-a.done
	})
}
