// Command notifyctl is the booking notifier operations CLI.
//
// Usage:
//
//	notifyctl migrate
//	notifyctl reminders scan
//	notifyctl reminders scan --at 2026-03-01T09:00:00-05:00
//	notifyctl events dispatch --file change.json
//	notifyctl events replay --collection service_records --id 42
//	notifyctl notifications purge --days 90
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/booking-notifier/internal/app"
	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/db"
	"github.com/albapepper/booking-notifier/internal/events"
	"github.com/albapepper/booking-notifier/internal/maintenance"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "notifyctl",
		Short: "Booking notifier operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(remindersCmd())
	root.AddCommand(eventsCmd())
	root.AddCommand(notificationsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// reminders command
// --------------------------------------------------------------------------

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Booking reminder operations",
	}

	var at string
	scan := &cobra.Command{
		Use:   "scan",
		Short: "Run one reminder scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}
			return run(func(ctx context.Context, cfg *config.Config, s *app.Services) error {
				result := maintenance.RunReminderScan(ctx, s.Scanner, now, logger)
				logger.Info("Reminder scan finished", "summary", result.Summary())
				if result.Failed > 0 {
					return fmt.Errorf("%d reminders failed", result.Failed)
				}
				return nil
			})
		},
	}
	scan.Flags().StringVar(&at, "at", "", "Scan as of this RFC3339 time instead of now")
	cmd.AddCommand(scan)
	return cmd
}

// --------------------------------------------------------------------------
// events command
// --------------------------------------------------------------------------

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Run notification handlers by hand",
	}
	cmd.AddCommand(eventsDispatchCmd())
	cmd.AddCommand(eventsReplayCmd())
	return cmd
}

func eventsDispatchCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Dispatch a change envelope read from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var change events.Change
			if err := json.Unmarshal(raw, &change); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}
			if change.EventID == "" {
				change.EventID = uuid.NewString()
			}
			return run(func(ctx context.Context, cfg *config.Config, s *app.Services) error {
				return dispatch(ctx, s, change)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a change envelope")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func eventsReplayCmd() *cobra.Command {
	var collection, id string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the create handler for a stored order or booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, s *app.Services) error {
				var (
					change events.Change
					err    error
				)
				eventID := uuid.NewString()
				switch collection {
				case config.OrdersTable:
					o, gerr := s.Store.GetOrder(ctx, id)
					if gerr != nil {
						return gerr
					}
					change, err = events.NewOrderChange(eventID, o)
				case config.ServiceRecordsTable:
					r, gerr := s.Store.GetServiceRecord(ctx, id)
					if gerr != nil {
						return gerr
					}
					change, err = events.NewServiceRecordChange(eventID, r)
				default:
					return fmt.Errorf("unsupported collection %q (want %s or %s)",
						collection, config.OrdersTable, config.ServiceRecordsTable)
				}
				if err != nil {
					return fmt.Errorf("build change: %w", err)
				}
				return dispatch(ctx, s, change)
			})
		},
	}
	cmd.Flags().StringVar(&collection, "collection", config.ServiceRecordsTable, "orders or service_records")
	cmd.Flags().StringVar(&id, "id", "", "Record ID")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func dispatch(ctx context.Context, s *app.Services, change events.Change) error {
	handled, err := s.Router.Dispatch(ctx, change)
	if err != nil {
		return err
	}
	logger.Info("Event dispatched",
		"event_id", change.EventID,
		"collection", change.Collection,
		"id", change.ID,
		"handled", handled)
	return nil
}

// --------------------------------------------------------------------------
// notifications command
// --------------------------------------------------------------------------

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "In-app notification maintenance",
	}

	var days int
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete read notifications older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, s *app.Services) error {
				if days <= 0 {
					days = cfg.NotificationRetentionDays
				}
				n := maintenance.PurgeNotifications(ctx, s.Store, days, time.Now(), logger)
				logger.Info("Purge finished", "deleted", n, "retention_days", days)
				return nil
			})
		},
	}
	purge.Flags().IntVar(&days, "days", 0, "Retention in days (default NOTIFICATION_RETENTION_DAYS)")
	cmd.AddCommand(purge)
	return cmd
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// run loads config, connects, wires the services and calls fn.
func run(fn func(ctx context.Context, cfg *config.Config, s *app.Services) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	services, err := app.Build(ctx, cfg, db.NewStore(pool), app.Options{}, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	return fn(ctx, cfg, services)
}
