// Package deepgram wraps the Deepgram prerecorded-audio API for speech-to-text
// with speaker diarization. The client uploads the audio file, retries
// transient provider failures with exponential backoff, and shapes the
// response into a speaker-labeled transcript plus timestamped segments.
package deepgram
