package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/mealr/internal/config"
	"github.com/christopherklint97/mealr/internal/store"
)

// PantrySource is the slice of the store the watcher reads.
type PantrySource interface {
	ExpiringSoon(now time.Time, days int) ([]store.PantryItem, error)
}

// Watcher checks the pantry once a day and raises a notification for items
// whose best-by date falls within the configured window.
type Watcher struct {
	src     PantrySource
	days    int
	hour    int
	minute  int
	notify  Notifier
	logger  *slog.Logger
	now     func() time.Time
	pidFile string
}

func New(cfg config.NotifyConfig, src PantrySource, notify Notifier, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if notify == nil {
		notify = SendNotification
	}
	h, m := parseTime(cfg.CheckAt)
	return &Watcher{
		src:    src,
		days:   cfg.ExpiryDays,
		hour:   h,
		minute: m,
		notify: notify,
		logger: logger,
		now:    time.Now,
	}
}

// Run blocks until ctx is canceled, checking once at startup and then daily
// at the configured time.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer w.removePID()

	if _, err := w.Check(); err != nil {
		w.logger.Warn("pantry check failed", "err", err)
	}

	for {
		next := w.nextCheck(w.now())
		w.logger.Info("next pantry check", "at", next.Format("2006-01-02 15:04"))

		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case <-time.After(time.Until(next)):
		}

		if _, err := w.Check(); err != nil {
			w.logger.Warn("pantry check failed", "err", err)
		}
	}
}

// Check notifies about expiring items and returns how many there were.
func (w *Watcher) Check() (int, error) {
	items, err := w.src.ExpiringSoon(w.now(), w.days)
	if err != nil {
		return 0, fmt.Errorf("checking pantry: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	title, msg := ExpiryMessage(items)
	if err := w.notify(title, msg); err != nil {
		w.logger.Warn("notification failed", "err", err)
	}
	w.logger.Info("expiring pantry items", "count", len(items))
	return len(items), nil
}

// ExpiryMessage renders the notification title and body for expiring items.
func ExpiryMessage(items []store.PantryItem) (string, string) {
	title := fmt.Sprintf("mealr: %d pantry item(s) expiring", len(items))
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s (best by %s)", it.Name, it.BestBy))
	}
	return title, strings.Join(lines, "\n")
}

func (w *Watcher) nextCheck(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseTime(s string) (int, int) {
	if len(s) == 5 && s[2] == ':' {
		h, errH := strconv.Atoi(s[:2])
		m, errM := strconv.Atoi(s[3:])
		if errH == nil && errM == nil && h >= 0 && h < 24 && m >= 0 && m < 60 {
			return h, m
		}
	}
	return 9, 0
}

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mealr-watch.pid"), nil
}

func (w *Watcher) pidLocation() (string, error) {
	if w.pidFile != "" {
		return w.pidFile, nil
	}
	return pidPath()
}

func (w *Watcher) writePID() error {
	path, err := w.pidLocation()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (w *Watcher) removePID() {
	if path, err := w.pidLocation(); err == nil {
		os.Remove(path)
	}
}

// ReadPID returns the PID of a running watcher.
func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running watcher found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}
