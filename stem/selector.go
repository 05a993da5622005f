package stem

import (
	"log/slog"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/model"
)

type FileScorer interface {
	ScoreFile(path string) (float64, error)
}

type Selector struct {
	Scorer FileScorer
	Logger *slog.Logger
	// enumeration order decides ties
	Order []string
}

func NewSelector(scorer FileScorer, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{Scorer: scorer, Logger: logger, Order: constants.StemNames}
}

// Select scores every non-percussive stem and returns the highest. Stems
// that fail to score are reported with 0 and cannot win. Fails with
// ErrNoMelodicContent when nothing usable scored above 0.
func (s *Selector) Select(stems map[string]string) (string, []model.StemScore, error) {
	var scores []model.StemScore
	best, bestScore := "", 0.0
	for _, name := range s.Order {
		if name == constants.PercussiveStem {
			continue
		}
		path, ok := stems[name]
		if !ok {
			s.Logger.Debug("stem missing", slog.String("stem", name))
			continue
		}
		score, err := s.Scorer.ScoreFile(path)
		if err != nil {
			s.Logger.Warn("stem scoring failed", slog.String("stem", name), slog.Any("error", err))
			scores = append(scores, model.StemScore{Stem: name, Score: 0})
			continue
		}
		scores = append(scores, model.StemScore{Stem: name, Score: score})
		if best == "" || score > bestScore {
			best, bestScore = name, score
		}
	}
	if best == "" || bestScore <= 0 {
		return "", scores, apperrors.ErrNoMelodicContent
	}
	s.Logger.Info("selected stem", slog.String("stem", best), slog.Float64("score", bestScore))
	return best, scores, nil
}
