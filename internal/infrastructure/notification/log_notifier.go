package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/memledger/internal/domain"
)

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message for the account holder.
func (n *LogNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	n.logger.Info().
		Str("transfer_id", notification.TransferID).
		Str("account_id", notification.Account.ID).
		Msg(notification.Message)

	return nil
}
