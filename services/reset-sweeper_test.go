package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeExpirer struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakeExpirer) SweepExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.n, f.err
}

func TestResetSweeper_Sweep(t *testing.T) {
	assert.Equal(t, int64(3), NewResetSweeper(&fakeExpirer{n: 3}, time.Hour).Sweep())
	assert.Equal(t, int64(0), NewResetSweeper(&fakeExpirer{n: 3, err: errors.New("db down")}, time.Hour).Sweep())
}

func TestResetSweeper_StartStop(t *testing.T) {
	exp := &fakeExpirer{}
	rs := NewResetSweeper(exp, 5*time.Millisecond)
	rs.Start()

	assert.Eventually(t, func() bool { return exp.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	rs.Stop()
}
