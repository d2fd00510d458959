package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tgr/internal/adapters/telemetry"
)

type chunks struct {
	mu   sync.Mutex
	data []string
}

func (c *chunks) add(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(c.data, string(p))
}

func (c *chunks) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.data...)
}

func TestBatchProcessor_SizeLimit(t *testing.T) {
	t.Parallel()

	var got chunks
	bp := telemetry.NewBatchProcessor(5, time.Hour, got.add)
	defer func() { _ = bp.Close() }()

	n, err := bp.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, got.get())

	_, err = bp.Write([]byte("de"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde"}, got.get())
}

func TestBatchProcessor_CloseFlushes(t *testing.T) {
	t.Parallel()

	var got chunks
	bp := telemetry.NewBatchProcessor(100, time.Hour, got.add)

	_, err := bp.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())
	assert.Equal(t, []string{"tail"}, got.get())

	_, err = bp.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrBatcherClosed)
}

func TestBatchProcessor_TimeLimit(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var got chunks
		bp := telemetry.NewBatchProcessor(100, time.Second, got.add)
		defer func() { _ = bp.Close() }()

		_, err := bp.Write([]byte("slow"))
		require.NoError(t, err)

		time.Sleep(500 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, got.get())

		time.Sleep(600 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"slow"}, got.get())
	})
}
