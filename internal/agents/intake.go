package agents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"callgrade/internal/graph"
	"callgrade/internal/logging"
	"callgrade/internal/state"
)

// Intake validates the input file, classifies it as audio or transcript, and
// extracts metadata. Validation failures are terminal but routable; a
// content-validation rejection aborts the run outright.
func (p *Pipeline) Intake(ctx context.Context, cs *state.CallState) (state.Update, error) {
	if strings.TrimSpace(cs.InputFilePath) == "" {
		return intakeFailure("no input file path provided", state.ErrKindMissingInput, nil), nil
	}

	info, err := os.Stat(cs.InputFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return intakeFailure(fmt.Sprintf("file not found: %s", cs.InputFilePath), state.ErrKindFileNotFound, nil), nil
		}
		return intakeFailure(fmt.Sprintf("cannot access file: %v", err), state.ErrKindUnknown, nil), nil
	}

	maxBytes := p.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && info.Size() > maxBytes {
		msg := fmt.Sprintf("file too large: %.1fMB (max %dMB)",
			float64(info.Size())/1024/1024, p.cfg.MaxFileSizeMB)
		return intakeFailure(msg, state.ErrKindFileTooLarge, nil), nil
	}

	ext := strings.ToLower(filepath.Ext(cs.InputFilePath))
	isAudio := slices.Contains(p.cfg.AudioExtensions, ext)
	isText := slices.Contains(p.cfg.TextExtensions, ext)
	if !isAudio && !isText {
		supported := append(slices.Clone(p.cfg.AudioExtensions), p.cfg.TextExtensions...)
		return intakeFailure(
			fmt.Sprintf("unsupported file format: %s", ext),
			state.ErrKindUnsupportedFormat,
			[]string{"supported formats: " + strings.Join(supported, ", ")},
		), nil
	}

	metadata := &state.FileMetadata{
		FileName:      filepath.Base(cs.InputFilePath),
		FileSizeBytes: info.Size(),
		FileFormat:    strings.TrimPrefix(ext, "."),
	}

	if isAudio {
		audio, err := p.deps.Prober.Probe(ctx, cs.InputFilePath)
		if err != nil {
			// Probe failures are not validation failures; record zeros.
			p.logger.Warn("audio probe failed",
				logging.String(logging.FieldStage, StageIntake),
				logging.Error(err))
		}
		metadata.Duration = audio.Duration
		metadata.SampleRate = audio.SampleRate
		metadata.Channels = audio.Channels

		return state.Update{
			Metadata:      metadata,
			HasAudio:      state.Ptr(true),
			FileValidated: state.Ptr(true),
			InputFileType: state.Ptr(state.FileTypeAudio),
			CurrentStep:   state.Ptr(StageIntake),
			Status:        state.Ptr(state.StatusInProgress),
			Error:         state.Ptr(""),
			ErrorKind:     state.Ptr(state.ErrKindNone),
		}, nil
	}

	raw, err := os.ReadFile(cs.InputFilePath)
	if err != nil {
		return intakeFailure(fmt.Sprintf("cannot read file: %v", err), state.ErrKindUnknown, nil), nil
	}
	text := string(raw)

	valid, reason := p.deps.Validator.Validate(ctx, text)
	if !valid {
		return state.Update{}, fmt.Errorf("%w: %s", graph.ErrAborted, reason)
	}

	return state.Update{
		Metadata:      metadata,
		HasAudio:      state.Ptr(false),
		FileValidated: state.Ptr(true),
		InputFileType: state.Ptr(state.FileTypeTranscript),
		RawTranscript: state.Ptr(text),
		// Transcription is skipped downstream for transcript inputs.
		Transcript:  state.Ptr(text),
		CurrentStep: state.Ptr(StageIntake),
		Status:      state.Ptr(state.StatusInProgress),
		Error:       state.Ptr(""),
		ErrorKind:   state.Ptr(state.ErrKindNone),
	}, nil
}

// intakeFailure builds the terminal validation update. Intake failures do not
// consume retry budget: the router sends them straight to the error handler.
func intakeFailure(msg string, kind state.ErrorKind, validationErrors []string) state.Update {
	return state.Update{
		Error:            state.Ptr(msg),
		ErrorKind:        state.Ptr(kind),
		FileValidated:    state.Ptr(false),
		ValidationErrors: validationErrors,
		CurrentStep:      state.Ptr(StageIntake),
	}
}
