/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/mq"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// eventsCmd tails domain events from the configured broker.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Log domain events published by the API server",
	Long: `Subscribes to the domain event channel on the broker selected by MQ_BACKEND
and logs every event until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer func() { _ = broker.Close() }()

		logger.Info("listening for events", zap.String("channel", services.EventsChannel))
		err = broker.Subscribe(ctx, services.EventsChannel, logEvent(logger))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

// logEvent acks every message; undecodable payloads are logged raw.
func logEvent(logger *zap.Logger) mq.Handler {
	return func(_ context.Context, msg mq.Message) error {
		var event services.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warn("undecodable event", zap.String("message_id", msg.ID), zap.ByteString("data", msg.Data))
			return nil
		}
		logger.Info("event",
			zap.String("type", event.Type),
			zap.String("id", event.ID),
			zap.Int("user_id", event.UserID),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
