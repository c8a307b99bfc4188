package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamProgress_Locked(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	p := &ExamProgress{}
	assert.False(t, p.Locked(now))

	until := now.Add(30 * time.Second)
	p.LockUntil = &until
	assert.True(t, p.Locked(now))
	assert.False(t, p.Locked(until))
	assert.False(t, p.Locked(until.Add(time.Second)))
}

func TestExamProgress_RemainingLockSeconds(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	p := &ExamProgress{}
	assert.Equal(t, int64(0), p.RemainingLockSeconds(now))

	until := now.Add(30 * time.Second)
	p.LockUntil = &until
	assert.Equal(t, int64(30), p.RemainingLockSeconds(now))

	// 不足一秒向上取整
	assert.Equal(t, int64(1), p.RemainingLockSeconds(until.Add(-300*time.Millisecond)))
	assert.Equal(t, int64(0), p.RemainingLockSeconds(until))
}

func TestAttemptLog_ScanValue(t *testing.T) {
	log := AttemptLog{{Percentage: 66.67, Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}}

	raw, err := log.Value()
	require.NoError(t, err)

	var decoded AttemptLog
	require.NoError(t, decoded.Scan(raw))
	require.Len(t, decoded, 1)
	assert.Equal(t, 66.67, decoded[0].Percentage)

	var empty AttemptLog
	raw, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
