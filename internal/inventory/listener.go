package inventory

import "github.com/rs/zerolog"

// LogAlertListener writes inventory alerts to the structured log. It is the
// default hub subscriber; kitchen dashboards or purchasing integrations can
// subscribe alongside it.
type LogAlertListener struct {
	logger zerolog.Logger
}

func NewLogAlertListener(logger zerolog.Logger) *LogAlertListener {
	return &LogAlertListener{logger: logger}
}

func (l *LogAlertListener) Notify(alert Alert) {
	switch a := alert.(type) {
	case LowStockAlert:
		l.logger.Warn().
			Stringer("supply_item_id", a.Item.ID).
			Str("name", a.Item.Name).
			Str("current", a.Item.CurrentQuantity.String()).
			Str("minimum", a.Item.MinimumQuantity.String()).
			Msg("supply item at or below minimum stock")
	case ExpiringSoonAlert:
		names := make([]string, 0, len(a.Items))
		for _, item := range a.Items {
			names = append(names, item.Name)
		}
		l.logger.Warn().
			Strs("items", names).
			Msg("supply items expiring soon")
	}
}
