// Package services defines shared utilities consumed by the transcode
// pipeline and the command layer.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the run-level error taxonomy (configuration, missing dependency,
//     unsupported format, external tool, lossless verification).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the converter.
package services
