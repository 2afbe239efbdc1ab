package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Debouncer(t *testing.T) {
	t.Run("should run the last callback of a burst once", func(t *testing.T) {
		d := NewDebouncer(30 * time.Millisecond)
		defer d.Stop()

		var calls atomic.Int32
		var last atomic.Int32
		for i := range 5 {
			d.Trigger("a.xml", func() {
				calls.Add(1)
				last.Store(int32(i))
			})
		}
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, int32(4), last.Load())
	})

	t.Run("should debounce keys independently", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		defer d.Stop()

		var mu sync.Mutex
		got := map[string]int{}
		for _, key := range []string{"a", "b", "a"} {
			d.Trigger(key, func() {
				mu.Lock()
				got[key]++
				mu.Unlock()
			})
		}
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return got["a"] == 1 && got["b"] == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("should drop pending callbacks on stop", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var calls atomic.Int32
		d.Trigger("a", func() { calls.Add(1) })
		d.Stop()
		d.Trigger("a", func() { calls.Add(1) })
		time.Sleep(60 * time.Millisecond)
		assert.Zero(t, calls.Load())
	})
}

func Test_Watcher(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "MyLib.xml")
	other := filepath.Join(dir, "Other.xml")
	require.NoError(t, os.WriteFile(target, []byte("<doc/>"), 0o644))

	w, err := New(Config{Files: []string{target}, Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) error {
			changed <- path
			return nil
		})
	}()

	// Give the watcher time to register its directory before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("<doc/>"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("<doc><x/></doc>"), 0o644))

	select {
	case path := <-changed:
		want, _ := filepath.Abs(target)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Error(t, w.Run(context.Background(), func(string) error { return nil }), "a watcher runs once")
}

func Test_New_RequiresFiles(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}
