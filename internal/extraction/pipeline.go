// internal/extraction/pipeline.go
// Package extraction orchestrates the two-stage answer extraction: the local
// keyword mapper first, then the remote semantic extractor, degrading to
// verbatim free-text storage when neither produces a structured value.
package extraction

import (
	"context"
	"errors"
	"time"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/common/metrics"
	"francis-backend/internal/common/observability"
	"francis-backend/internal/extraction/keywordmapper"
	"francis-backend/internal/extraction/semanticfallback"
	"francis-backend/internal/models"
	"francis-backend/pkg/questionnaire"
)

// Source identifies which stage produced the stored answer.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceSemantic Source = "semantic"
	SourceLibre    Source = "libre"
)

// Outcome is the result of running one answer fragment through the pipeline.
type Outcome struct {
	Source Source
	// AppliedQuestions lists every question that received a structured value.
	// The semantic stage may fill questions beyond the target one.
	AppliedQuestions []string
	// Advance is true when the target question itself was answered (or the
	// fragment was stored as free text), telling the caller to move on.
	Advance bool
}

// SemanticExtractor is the remote extraction dependency.
type SemanticExtractor interface {
	Extract(ctx context.Context, req *semanticfallback.Request) (map[string]interface{}, error)
}

type Pipeline struct {
	questionnaire *questionnaire.Questionnaire
	fallback      SemanticExtractor
	logger        logger.Logger
	obs           *observability.Observability
}

func NewPipeline(q *questionnaire.Questionnaire, fallback SemanticExtractor, log logger.Logger) *Pipeline {
	return &Pipeline{
		questionnaire: q,
		fallback:      fallback,
		logger:        log.WithFields(map[string]interface{}{"component": "extraction-pipeline"}),
	}
}

// WithObservability attaches the OTel meters. Without it only the prometheus
// collectors are fed.
func (p *Pipeline) WithObservability(obs *observability.Observability) *Pipeline {
	p.obs = obs
	return p
}

func (p *Pipeline) record(ctx context.Context, source Source, start time.Time) {
	metrics.ExtractionDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	if p.obs != nil {
		p.obs.RecordExtraction(ctx, string(source))
		p.obs.RecordExtractionDuration(ctx, time.Since(start), string(source))
	}
}

// Process maps one user fragment onto the answers for the given target
// question. It never returns an error: when both stages fail, the fragment is
// stored verbatim under the question's free-text fallback so nothing the user
// said is lost.
func (p *Pipeline) Process(ctx context.Context, answers *models.ProfileAnswers,
	targetQuestionID, text string, conversationalContext []string) Outcome {

	start := time.Now()

	if result, ok := keywordmapper.Map(targetQuestionID, text); ok {
		if result.IsMulti() {
			answers.SetMulti(result.QuestionID, result.Multi)
		} else {
			answers.SetSingle(result.QuestionID, result.Single)
		}
		metrics.ExtractionsTotal.WithLabelValues(string(SourceKeyword), "applied").Inc()
		p.record(ctx, SourceKeyword, start)
		return Outcome{
			Source:           SourceKeyword,
			AppliedQuestions: []string{result.QuestionID},
			Advance:          true,
		}
	}

	fields, err := p.fallback.Extract(ctx, &semanticfallback.Request{
		Text:             text,
		Context:          conversationalContext,
		TargetQuestionID: targetQuestionID,
	})
	if err == nil {
		merged := semanticfallback.Apply(answers, p.questionnaire, fields, targetQuestionID)
		if len(merged.Applied) > 0 {
			metrics.ExtractionsTotal.WithLabelValues(string(SourceSemantic), "applied").Inc()
			p.record(ctx, SourceSemantic, start)
			return Outcome{
				Source:           SourceSemantic,
				AppliedQuestions: merged.Applied,
				Advance:          merged.Advance,
			}
		}
		err = semanticfallback.ErrExtractionEmpty
	}

	if !errors.Is(err, semanticfallback.ErrExtractionEmpty) {
		p.logger.Warn("semantic extraction failed, storing free text", map[string]interface{}{
			"question": targetQuestionID,
			"error":    err.Error(),
		})
	}

	semanticfallback.Degrade(answers, targetQuestionID, text)
	metrics.ExtractionsTotal.WithLabelValues(string(SourceLibre), "degraded").Inc()
	p.record(ctx, SourceLibre, start)
	return Outcome{
		Source:           SourceLibre,
		AppliedQuestions: nil,
		Advance:          true,
	}
}
