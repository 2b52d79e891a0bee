package order

import "github.com/rs/zerolog"

// LogNotifier is a status hub listener that writes every status change to the
// structured log. Subscribed in the composition root; external consumers
// (mailers, dashboards) implement the same Listener contract.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(event StatusChange) {
	n.logger.Info().
		Stringer("order_id", event.Order.ID).
		Str("number", event.Order.Number).
		Stringer("old_status", event.Old).
		Stringer("new_status", event.New).
		Msg("order status changed")
}
