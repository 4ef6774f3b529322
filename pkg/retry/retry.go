// Package retry reintentos acotados para lecturas idempotentes (carga inicial de listados).
// Las mutaciones nunca se reintentan.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy número máximo de intentos y espera fija entre ellos.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Do ejecuta fn hasta que devuelva nil, se agoten los intentos o se cancele ctx.
// onRetry (opcional) recibe el número de intento fallido y su error antes de esperar.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	failed := 0
	notify := func(err error, _ time.Duration) {
		failed++
		if onRetry != nil {
			onRetry(failed, err)
		}
	}
	return backoff.RetryNotify(func() error { return fn(ctx) }, b, notify)
}
