// Package batch is the conversion orchestrator: deterministic file
// discovery, fan-out of one task per file to a bounded executor, per-task
// failure isolation, and aggregation into a single batch outcome.
//
// The package knows nothing about image formats. Decoding is behind the
// [Converter] contract, and the front-end (CLI today, anything tomorrow)
// sits behind [Notifier].
package batch
