// Package pipeline wires the stages that turn an uploaded file into an
// analysis result. A MIDI file goes straight to harmonic reduction; a
// recording is separated into stems, the best stem is pitch tracked and
// segmented into notes, and those notes are reduced like a MIDI file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/audio"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/exec"
	"github.com/rheminthsimeon/melodistiq/harmony"
	"github.com/rheminthsimeon/melodistiq/midi"
	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/pitch"
	"github.com/rheminthsimeon/melodistiq/score"
	"github.com/rheminthsimeon/melodistiq/segment"
	"github.com/rheminthsimeon/melodistiq/stem"
	"github.com/rheminthsimeon/melodistiq/workspace"
)

type StemSelector interface {
	Select(stems map[string]string) (string, []model.StemScore, error)
}

type Analyzer struct {
	Decoder   *audio.Decoder
	Separator stem.Separator
	Selector  StemSelector
	Tracker   pitch.Tracker
	Reducer   *harmony.Reducer
	Logger    *slog.Logger
}

// New builds the production analyzer: demucs through the runner, chroma
// stem scoring and YIN pitch tracking.
func New(runner *exec.Runner, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		Decoder:   audio.NewDecoder(runner),
		Separator: stem.NewCommandSeparator(runner, constants.GetSeparatorScript()),
		Selector:  stem.NewSelector(stem.NewScorer(logger), logger),
		Tracker:   pitch.NewYIN(),
		Reducer:   harmony.NewReducer(logger),
		Logger:    logger,
	}
}

// AnalyzeMIDI reduces a MIDI file to chords, or to notes if it is
// monophonic throughout.
func (a *Analyzer) AnalyzeMIDI(ctx context.Context, path string) (*model.AnalysisResult, error) {
	span := sentry.StartSpan(ctx, "pipeline.parse_midi")
	s, err := score.Parse(path)
	span.Finish()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptedFile, err)
	}
	return a.reduce(ctx, s)
}

// AnalyzeAudio transcribes the dominant stem of a recording and reduces
// the resulting notes.
func (a *Analyzer) AnalyzeAudio(ctx context.Context, ws *workspace.Workspace, path string) (*model.AnalysisResult, error) {
	notes, _, err := a.Transcribe(ctx, ws, path)
	if err != nil {
		return nil, err
	}
	return a.reduce(ctx, score.FromNoteEvents(notes))
}

// TranscribeToMIDI writes the notes of the dominant stem to out.
func (a *Analyzer) TranscribeToMIDI(ctx context.Context, ws *workspace.Workspace, path, out string) ([]model.NoteEvent, error) {
	notes, _, err := a.Transcribe(ctx, ws, path)
	if err != nil {
		return nil, err
	}
	if err := midi.WriteMidiFile(out, score.FromNoteEvents(notes).ToSMF()); err != nil {
		return nil, err
	}
	return notes, nil
}

// Transcribe returns the segmented notes of the winning stem and that
// stem's name.
func (a *Analyzer) Transcribe(ctx context.Context, ws *workspace.Workspace, path string) ([]model.NoteEvent, string, error) {
	best, stems, _, err := a.selectStem(ctx, ws, path)
	if err != nil {
		return nil, "", err
	}

	span := sentry.StartSpan(ctx, "pipeline.track_pitch")
	defer span.Finish()
	samples, rate, err := audio.ReadWAVMono(stems[best])
	if err != nil {
		return nil, "", fmt.Errorf("read stem %s: %w", best, err)
	}
	frames, err := a.Tracker.Track(samples, rate, constants.PitchMinFreq, constants.PitchMaxFreq, constants.FrameLength)
	if err != nil {
		return nil, "", fmt.Errorf("track pitch: %w", err)
	}
	notes := segment.Segment(frames)
	a.Logger.Info("segmented notes", slog.String("stem", best), slog.Int("frames", len(frames)), slog.Int("notes", len(notes)))
	if len(notes) == 0 {
		return nil, "", apperrors.ErrNoMelodicContent
	}
	return notes, best, nil
}

// StemReport separates a recording and scores every stem without
// transcribing it.
func (a *Analyzer) StemReport(ctx context.Context, ws *workspace.Workspace, path string) (string, []model.StemScore, error) {
	best, _, scores, err := a.selectStem(ctx, ws, path)
	return best, scores, err
}

func (a *Analyzer) selectStem(ctx context.Context, ws *workspace.Workspace, path string) (string, map[string]string, []model.StemScore, error) {
	span := sentry.StartSpan(ctx, "pipeline.separate")
	defer span.Finish()

	input, err := a.Decoder.ToWAV(span.Context(), path, ws.DecodedWAV())
	if err != nil {
		return "", nil, nil, err
	}
	stems, err := a.Separator.Separate(span.Context(), input, ws.StemsDir())
	if err != nil {
		return "", nil, nil, err
	}
	a.Logger.Info("stems separated", slog.Int("count", len(stems)))

	best, scores, err := a.Selector.Select(stems)
	if err != nil {
		return "", stems, scores, err
	}
	span.SetTag("stem", best)
	return best, stems, scores, nil
}

func (a *Analyzer) reduce(ctx context.Context, s *score.Score) (*model.AnalysisResult, error) {
	span := sentry.StartSpan(ctx, "pipeline.reduce")
	defer span.Finish()

	r, err := a.Reducer.Reduce(s)
	if err != nil {
		if errors.Is(err, score.ErrEmptyScore) {
			return nil, apperrors.ErrNoMelodicContent
		}
		return nil, err
	}
	res := r.Result()
	a.Logger.Info("reduced score", slog.String("type", string(res.Kind)), slog.String("scale", res.Scale))
	return res, nil
}
