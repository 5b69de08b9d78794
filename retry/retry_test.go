package retry

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeBackoff(t *testing.T) {
	base := 1000 * time.Millisecond
	limit := 10000 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1000 * time.Millisecond},
		{1, 2000 * time.Millisecond},
		{2, 4000 * time.Millisecond},
		{3, 8000 * time.Millisecond},
		{4, 10000 * time.Millisecond},
		{5, 10000 * time.Millisecond},
		{-1, 1000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeBackoff(tt.attempt, base, limit))
		})
	}
}

func TestComputeBackoffMatchesFormula(t *testing.T) {
	p := DefaultPolicy()
	for a := 0; a < p.MaxAttempts; a++ {
		want := time.Duration(math.Min(float64(p.BaseDelay)*math.Pow(2, float64(a)), float64(p.MaxDelay)))
		assert.Equal(t, want, ComputeBackoff(a, p.BaseDelay, p.MaxDelay))
	}
}

func TestComputeBackoffSaturates(t *testing.T) {
	assert.Equal(t, time.Duration(math.MaxInt64), ComputeBackoff(200, time.Second, 0))
	assert.Equal(t, time.Minute, ComputeBackoff(200, time.Second, time.Minute))
	assert.Zero(t, ComputeBackoff(3, 0, time.Minute))
}

func TestPolicyBackoffUsesMultiplier(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffMultiplier: 3}
	assert.Equal(t, 100*time.Millisecond, p.Backoff(0))
	assert.Equal(t, 300*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 900*time.Millisecond, p.Backoff(2))
	assert.Equal(t, time.Second, p.Backoff(3))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 10*time.Second, p.MaxDelay)
	assert.Equal(t, 2.0, p.BackoffMultiplier)
	assert.NoError(t, p.Validate())
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
		field  string
	}{
		{name: "negative attempts", mutate: func(p *Policy) { p.MaxAttempts = -1 }, field: "MaxAttempts"},
		{name: "negative base", mutate: func(p *Policy) { p.BaseDelay = -time.Second }, field: "BaseDelay"},
		{name: "cap below base", mutate: func(p *Policy) { p.MaxDelay = 500 * time.Millisecond }, field: "MaxDelay"},
		{name: "shrinking multiplier", mutate: func(p *Policy) { p.BackoffMultiplier = 0.5 }, field: "BackoffMultiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.field)
			}
		})
	}
}

func TestPolicyCanRetry(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.CanRetry(0))
	assert.True(t, p.CanRetry(2))
	assert.False(t, p.CanRetry(3))
	assert.False(t, p.CanRetry(4))

	none := Policy{MaxAttempts: 0, BaseDelay: time.Second, MaxDelay: time.Second, BackoffMultiplier: 2}
	assert.NoError(t, none.Validate())
	assert.False(t, none.CanRetry(0))
}

func TestMessage(t *testing.T) {
	assert.Equal(t,
		"Estamos processando muitas requisições. Aguardando 1 segundo(s) antes de tentar novamente.",
		Message(1, time.Second))
	assert.Contains(t, Message(2, 2500*time.Millisecond), "Tentando novamente em 3 segundo(s)")
	assert.Contains(t, Message(3, 4*time.Second), "Última tentativa em 4 segundo(s)")
	assert.Contains(t, Message(7, 4*time.Second), "Última tentativa")
}

func TestWaitSeconds(t *testing.T) {
	assert.Equal(t, int64(0), WaitSeconds(0))
	assert.Equal(t, int64(1), WaitSeconds(time.Millisecond))
	assert.Equal(t, int64(2), WaitSeconds(2*time.Second))
}
