package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

var errTransitorio = errors.New("transitorio")

func TestDo_ReintentaHastaExito(t *testing.T) {
	calls := 0
	var retried []int
	err := retry.Policy{Attempts: 3, Delay: time.Millisecond}.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransitorio
		}
		return nil
	}, func(attempt int, _ error) { retried = append(retried, attempt) })

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_AgotaIntentos(t *testing.T) {
	calls := 0
	err := retry.Policy{Attempts: 2}.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransitorio
	}, nil)
	assert.ErrorIs(t, err, errTransitorio)
	assert.Equal(t, 2, calls)
}

func TestDo_SinIntentosEjecutaUnaVez(t *testing.T) {
	calls := 0
	_ = retry.Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransitorio
	}, nil)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Policy{Attempts: 5, Delay: time.Hour}.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransitorio
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_EsperaEntreIntentos(t *testing.T) {
	calls := 0
	start := time.Now()
	err := retry.Policy{Attempts: 3, Delay: 10 * time.Millisecond}.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransitorio
	}, nil)

	assert.ErrorIs(t, err, errTransitorio)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
