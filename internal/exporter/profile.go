package exporter

import (
	"context"
	"log/slog"

	"loadprofile/internal/dataprocessing"
	"loadprofile/internal/errors"
)

// ProfileHeaders are the columns of the profile CSV.
var ProfileHeaders = []string{"Time", "Average power [kW]", "Max total power [kW]"}

// ProfileExporter writes the 24h profile as one CSV row per slot.
type ProfileExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewProfileExporter creates a profile exporter
func NewProfileExporter(logger *slog.Logger) *ProfileExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileExporter{csv: NewCSVWriter(logger), logger: logger}
}

// Export writes p to path. Slots without data have empty value fields.
func (e *ProfileExporter) Export(ctx context.Context, p *dataprocessing.Profile, path string) error {
	records := make([][]string, len(p.Slots))
	for i, slot := range p.Slots {
		records[i] = []string{slot, formatPower(p.Average[i]), formatPower(p.Maximum[i])}
	}

	if err := e.csv.WriteSimpleCSV(path, ProfileHeaders, records); err != nil {
		return errors.NewStorageError("failed to write profile", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "profile written",
		slog.String("path", path),
		slog.Int("slots", len(p.Slots)))
	return nil
}
