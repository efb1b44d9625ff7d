package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/christopherklint97/mealr/internal/config"
	"github.com/christopherklint97/mealr/internal/scheduler"
	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/christopherklint97/mealr/internal/store"
	"github.com/christopherklint97/mealr/internal/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mealr",
	Short:         "Meal planner and shopping list builder",
	Long:          "mealr keeps a weekly meal plan, a pantry and a price book, and turns the plan into a per-store shopping list.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a single config value, e.g. shopping.use_pantry false",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run in the background and notify about expiring pantry items",
	RunE:  runWatch,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watcher",
	RunE:  runStop,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	configCmd.AddCommand(configSetCmd)
	watchCmd.AddCommand(stopCmd)

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(recipeCmd)
	rootCmd.AddCommand(pantryCmd)
	rootCmd.AddCommand(stapleCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Error("Error: "+err.Error()))
		os.Exit(1)
	}
}

// app bundles what most commands need: config, database, cache backend.
type app struct {
	cfg    *config.Config
	db     *store.DB
	state  shopping.StateStore
	logger *slog.Logger
	redis  *store.RedisState
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Log.Level)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a := &app{cfg: cfg, db: db, state: db, logger: logger}

	if cfg.Cache.Backend == "redis" {
		rs, err := store.NewRedisState(cfg.Cache.RedisURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rs
		a.state = rs
	}
	logger.Debug("opened database", "path", cfg.Database.Path, "cache", cfg.Cache.Backend)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}

func (a *app) generator() *shopping.Generator {
	return shopping.NewGenerator(store.NewSnapshot(a.db), a.logger)
}

func (a *app) cache() *shopping.Cache {
	return shopping.NewCache(a.state, a.logger)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Notifications.Enabled {
		return fmt.Errorf("notifications are disabled, run 'mealr config set notifications.enabled true'")
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Watching pantry (check at %s, %d day window)\n",
		a.cfg.Notifications.CheckAt, a.cfg.Notifications.ExpiryDays)
	return scheduler.New(a.cfg.Notifications, a.db, nil, a.logger).Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to mealr watcher (PID %d)\n", pid)
	return nil
}

const defaultConfigTemplate = `[database]
# path = "~/.config/mealr/mealr.db"

[shopping]
use_pantry = %t
week_start = "%s"

[cache]
backend = "%s"
# redis_url = "redis://localhost:6379/0"

[ai]
provider = "%s"
model = "%s"

[server]
addr = "%s"
allowed_origins = ["%s"]

[notifications]
enabled = %t
expiry_days = %d
check_at = "%s"

[log]
level = "%s"
`

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data := fmt.Sprintf(defaultConfigTemplate,
			cfg.Shopping.UsePantry,
			cfg.Shopping.WeekStart,
			cfg.Cache.Backend,
			cfg.AI.Provider,
			cfg.AI.Model,
			cfg.Server.Addr,
			strings.Join(cfg.Server.AllowedOrigins, `", "`),
			cfg.Notifications.Enabled,
			cfg.Notifications.ExpiryDays,
			cfg.Notifications.CheckAt,
			cfg.Log.Level,
		)
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := config.SetValue(configPath, args[0], parseConfigValue(args[1])); err != nil {
		return err
	}
	if _, err := config.LoadFrom(configPath); err != nil {
		return fmt.Errorf("config no longer loads: %w", err)
	}
	fmt.Println(tui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1])))
	return nil
}

// parseConfigValue types a command-line value the way TOML would.
func parseConfigValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
