package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, Register)
	assert.NotPanics(t, Register)

	err := prometheus.Register(CryptogramCount)
	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))
}

func TestCryptogramCount(t *testing.T) {
	counter := CryptogramCount.WithLabelValues("VISA", "CVN18", Result(nil))
	before := testutil.ToFloat64(counter)
	counter.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
}

func TestResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("boom")))
}
