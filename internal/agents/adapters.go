package agents

import (
	"context"

	"callgrade/internal/media/ffprobe"
	"callgrade/internal/services"
	"callgrade/internal/services/deepgram"
	"callgrade/internal/state"
)

// FFprobeProber implements AudioProber by shelling out to ffprobe.
type FFprobeProber struct {
	Binary string
}

func (p FFprobeProber) Probe(ctx context.Context, path string) (AudioInfo, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return AudioInfo{}, services.Wrap(services.ErrExternalService, StageIntake, "ffprobe inspect", "", err)
	}
	audio := result.Audio()
	return AudioInfo{
		Duration:   audio.Duration,
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	}, nil
}

// DeepgramTranscriber implements Transcriber on the Deepgram client.
type DeepgramTranscriber struct {
	Client *deepgram.Client
}

func (t DeepgramTranscriber) Transcribe(ctx context.Context, path string) (Transcription, error) {
	result, err := t.Client.TranscribeFile(ctx, path)
	if err != nil {
		return Transcription{}, services.Wrap(services.ErrExternalService, StageTranscribe, "deepgram transcribe", "", err)
	}
	segments := make([]state.SpeakerSegment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, state.SpeakerSegment{
			Speaker: seg.Speaker,
			Text:    seg.Text,
			Start:   seg.Start,
			End:     seg.End,
		})
	}
	return Transcription{
		Formatted:   result.Formatted,
		Plain:       result.PlainText,
		Segments:    segments,
		NumSpeakers: result.NumSpeakers,
		Language:    result.Language,
		Duration:    result.Duration,
	}, nil
}
