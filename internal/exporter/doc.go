// Package exporter writes the results of a processing run to disk.
//
// SummaryExporter writes the summary table as an .xlsx workbook.
//
// ProfileExporter writes the 24h profile as CSV with a UTF-8 BOM so that
// Excel opens it with the right encoding. It is built on CSVWriter.
//
// Writer fans the outputs of one run (workbook, profile CSV and chart) out
// concurrently and fails if any of them fails.
//
// Example usage:
//
//	w := exporter.NewWriter(cfg.Output, logger)
//	paths, err := w.WriteAll(ctx, result, summaryDir)
package exporter
