// Package ffprobe provides a typed wrapper around ffprobe JSON output,
// reduced to the audio properties intake needs: duration, sample rate, and
// channel count.
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// Probe failures are ordinary errors here; the intake stage treats them as
// zero-valued metadata rather than a validation failure.
package ffprobe
