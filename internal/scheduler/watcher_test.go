package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/christopherklint97/mealr/internal/config"
	"github.com/christopherklint97/mealr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePantry struct {
	items []store.PantryItem
	err   error
	days  int
}

func (f *fakePantry) ExpiringSoon(now time.Time, days int) ([]store.PantryItem, error) {
	f.days = days
	return f.items, f.err
}

type sent struct{ title, msg string }

func recorder(out *[]sent) Notifier {
	return func(title, message string) error {
		*out = append(*out, sent{title, message})
		return nil
	}
}

func TestParseTime(t *testing.T) {
	h, m := parseTime("07:45")
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	for _, bad := range []string{"", "7:45", "25:00", "ab:cd", "-1:30", "09:-5", "12:60"} {
		h, m = parseTime(bad)
		assert.Equal(t, 9, h, bad)
		assert.Equal(t, 0, m, bad)
	}
}

func TestNextCheck(t *testing.T) {
	w := New(config.NotifyConfig{CheckAt: "09:00"}, &fakePantry{}, nil, nil)

	before := time.Date(2026, 2, 23, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC), w.nextCheck(before))

	exact := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC), w.nextCheck(exact))

	after := time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), w.nextCheck(after))
}

func TestCheck_Notifies(t *testing.T) {
	src := &fakePantry{items: []store.PantryItem{
		{Name: "Milk", BestBy: "2026-02-24"},
		{Name: "Spinach", BestBy: "2026-02-25"},
	}}
	var got []sent
	w := New(config.NotifyConfig{ExpiryDays: 3}, src, recorder(&got), nil)

	n, err := w.Check()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, src.days)
	require.Len(t, got, 1)
	assert.Equal(t, "mealr: 2 pantry item(s) expiring", got[0].title)
	assert.Equal(t, "Milk (best by 2026-02-24)\nSpinach (best by 2026-02-25)", got[0].msg)
}

func TestCheck_NothingExpiring(t *testing.T) {
	var got []sent
	w := New(config.NotifyConfig{ExpiryDays: 3}, &fakePantry{}, recorder(&got), nil)

	n, err := w.Check()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, got)
}

func TestCheck_StoreError(t *testing.T) {
	w := New(config.NotifyConfig{}, &fakePantry{err: errors.New("locked")}, nil, nil)
	_, err := w.Check()
	require.Error(t, err)
}

func TestCheck_NotifyFailureIgnored(t *testing.T) {
	src := &fakePantry{items: []store.PantryItem{{Name: "Milk", BestBy: "2026-02-24"}}}
	w := New(config.NotifyConfig{}, src, func(string, string) error { return errors.New("no dbus") }, nil)

	n, err := w.Check()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_StopsOnCancel(t *testing.T) {
	var got []sent
	src := &fakePantry{items: []store.PantryItem{{Name: "Milk", BestBy: "2026-02-24"}}}
	w := New(config.NotifyConfig{CheckAt: "09:00"}, src, recorder(&got), nil)
	w.pidFile = filepath.Join(t.TempDir(), "watch.pid")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(w.pidFile)
		return err == nil && string(data) == strconv.Itoa(os.Getpid())
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Len(t, got, 1)
	_, err := os.Stat(w.pidFile)
	assert.True(t, os.IsNotExist(err))
}
