package events

import (
	"github.com/rs/zerolog"
)

// LogHandler writes every event it receives to a zerolog logger
type LogHandler struct {
	logger zerolog.Logger
}

func NewLogHandler(logger zerolog.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) CanHandle(string) bool {
	return true
}

func (h *LogHandler) Handle(event Event) error {
	e := h.logger.Info().
		Str("event", event.Type()).
		Str("stream", event.StreamID()).
		Int("version", event.Version())

	switch data := event.Data().(type) {
	case StockUpdated:
		e = e.Int64("stock_before", int64(data.StockBefore)).
			Int64("stock_after", int64(data.StockAfter)).
			Str("price", data.Price.StringFixed(3))
	case PartBundled:
		e = e.Int("movements", len(data.Movements))
	case PartsImported:
		e = e.Int("parts", data.Parts).Int("bom_lines", data.BOMLines)
	}

	e.Msg("event published")
	return nil
}
