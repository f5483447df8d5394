package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Watch calls onChange with the payload of every notification on channel.
// onChange is first called with an empty payload to process the initial
// state. Watching stops when ctx is cancelled.
func Watch(ctx context.Context, db *pgxpool.Pool, channel string, onChange func(payload string) error) error {
	if err := onChange(""); err != nil {
		return fmt.Errorf("failed to process initial state: %w", err)
	}

	conn, err := db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire db conn: %w", err)
	}

	_, err = conn.Exec(ctx, fmt.Sprintf("LISTEN %s", channel))
	if err != nil {
		conn.Release()
		return fmt.Errorf("failed to listen for notifications: %w", err)
	}

	go func() {
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				slog.ErrorContext(ctx, "error waiting for notification", "channel", channel, "error", err)
				continue
			}

			slog.DebugContext(ctx, "postgres notification", "channel", channel, "payload", notification.Payload)
			if err := onChange(notification.Payload); err != nil {
				slog.ErrorContext(ctx, "error processing notification", "channel", channel, "error", err)
			}
		}
	}()

	return nil
}
