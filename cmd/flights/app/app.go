package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"flightrec/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil {
		return fmt.Errorf("opening database '%s': %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	switch config.Command {
	case CommandShow:
		return showSession(ctx, store, config.SessionID)

	case CommandDelete:
		if err := store.DeleteSession(ctx, config.SessionID); err != nil {
			return fmt.Errorf("deleting session %d: %w", config.SessionID, err)
		}
		logger.Info("session deleted", slog.Int64("session", config.SessionID))
		return nil

	default:
		return listSessions(ctx, store)
	}
}

func listSessions(ctx context.Context, store *storage.SqliteStore) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("no recorded flights")
		return nil
	}

	for _, s := range sessions {
		fmt.Printf("%4d  %-24s  %-14s  %10s  %10s\n",
			s.ID,
			s.Name,
			humanize.Time(s.StartTime),
			fmtDuration(s.DurationSec),
			fmtDistance(s.Distance),
		)
	}
	return nil
}

func showSession(ctx context.Context, store *storage.SqliteStore, sessionID int64) error {
	session, err := store.Session(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session %d: %w", sessionID, err)
	}

	samples, err := store.Samples(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading samples: %w", err)
	}

	fmt.Printf("%s (started %s)\n", session.Name, humanize.Time(session.StartTime))
	fmt.Printf("  samples:      %s\n", humanize.Comma(int64(len(samples))))
	fmt.Printf("  duration:     %s\n", fmtDuration(session.DurationSec))
	fmt.Printf("  distance:     %s\n", fmtDistance(session.Distance))
	fmt.Printf("  max altitude: %s\n", fmtOpt(session.MaxAltitude, "%.0f m"))
	fmt.Printf("  max speed:    %s\n", fmtSpeed(session.MaxSpeed))
	fmt.Printf("  avg speed:    %s\n", fmtSpeed(session.AvgSpeed))
	fmt.Printf("  max G:        %s\n", fmtOpt(session.MaxG, "%.2f"))
	fmt.Printf("  min G:        %s\n", fmtOpt(session.MinG, "%.2f"))
	if session.Notes != nil {
		fmt.Printf("  notes:        %s\n", *session.Notes)
	}
	return nil
}

func fmtDuration(sec *float64) string {
	if sec == nil {
		return "-"
	}
	return (time.Duration(*sec * float64(time.Second))).Round(time.Second).String()
}

func fmtDistance(meters *float64) string {
	if meters == nil {
		return "-"
	}
	return humanize.SIWithDigits(*meters, 1, "m")
}

func fmtSpeed(ms *float64) string {
	if ms == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f km/h", *ms*3.6)
}

func fmtOpt(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
