package metrics

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter(t *testing.T) {
	t.Run("writes headers and one line per event", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir, "6_6_4", "exp", false)
		require.NoError(t, err)

		require.NoError(t, w.AppendLoss(1, 4.5, 3.25))
		require.NoError(t, w.AppendLoss(2, 4, 3))
		require.NoError(t, w.AppendWinRatio(50, 1000, 0.6))

		// Lines are flushed as they are written
		require.Equal(t, "self-play,loss,entropy\n1,4.5,3.25\n2,4,3\n", readFile(t, LossLogPath(dir, "6_6_4", "exp")))
		require.Equal(t, "self-play,pure_MCTS,win_ratio\n50,1000,0.6\n", readFile(t, WinRatioLogPath(dir, "6_6_4", "exp")))
		require.NoError(t, w.Close())
	})

	t.Run("resume appends without a second header", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir, "6_6_4", "exp", false)
		require.NoError(t, err)
		require.NoError(t, w.AppendLoss(1, 4, 3))
		require.NoError(t, w.Close())

		w, err = NewWriter(dir, "6_6_4", "exp", true)
		require.NoError(t, err)
		require.NoError(t, w.AppendLoss(2, 3, 2))
		require.NoError(t, w.Close())

		require.Equal(t, "self-play,loss,entropy\n1,4,3\n2,3,2\n", readFile(t, LossLogPath(dir, "6_6_4", "exp")))
	})

	t.Run("fresh run truncates", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir, "6_6_4", "exp", false)
		require.NoError(t, err)
		require.NoError(t, w.AppendWinRatio(50, 1000, 1))
		require.NoError(t, w.Close())

		w, err = NewWriter(dir, "6_6_4", "exp", false)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		require.Equal(t, "self-play,pure_MCTS,win_ratio\n", readFile(t, WinRatioLogPath(dir, "6_6_4", "exp")))
	})
}
