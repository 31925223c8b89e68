package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSweep struct {
	calls atomic.Int64
	err   error
}

func (f *fakeSweep) SweepExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	return 0, f.err
}

func TestExpirySweeperRunsImmediatelyAndOnTick(t *testing.T) {
	sweep := &fakeSweep{}
	s := NewExpirySweeper(sweep, 10*time.Millisecond)
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return sweep.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := sweep.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sweep.calls.Load(), "no sweeps after Stop")
}

func TestExpirySweeperSurvivesErrors(t *testing.T) {
	sweep := &fakeSweep{err: errors.New("db down")}
	s := NewExpirySweeper(sweep, 5*time.Millisecond)
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return sweep.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

type fakeDigest struct {
	days  atomic.Int64
	calls atomic.Int64
}

func (f *fakeDigest) NotifyExpiringStock(_ context.Context, days int) (int, error) {
	f.days.Store(int64(days))
	f.calls.Add(1)
	return 1, nil
}

func TestExpirySweeperSendsDigestAfterSweep(t *testing.T) {
	sweep := &fakeSweep{}
	digest := &fakeDigest{}
	s := NewExpirySweeper(sweep, time.Hour).WithDigest(digest, 14)
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return digest.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, int64(14), digest.days.Load())
	assert.Equal(t, int64(1), sweep.calls.Load())
}

func TestExpirySweeperSkipsDigestWhenSweepFails(t *testing.T) {
	sweep := &fakeSweep{err: errors.New("db down")}
	digest := &fakeDigest{}
	s := NewExpirySweeper(sweep, time.Hour).WithDigest(digest, 14)
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return sweep.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Zero(t, digest.calls.Load())
}

func TestExpirySweeperStopWithoutStart(t *testing.T) {
	NewExpirySweeper(&fakeSweep{}, 0).Stop()
}
