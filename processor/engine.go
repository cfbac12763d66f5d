package processor

import (
	"fmt"

	"github.com/google/uuid"

	appconfig "matchflow/config"
	"matchflow/logger"
	"matchflow/models"
)

// Engine runs the temporal fusion for one match: it reconciles the three
// independently-produced signal streams into a single Timeline. An engine is
// stateless between runs; concurrent match runs each own their inputs and
// outputs exclusively, so no locking is needed.
type Engine struct {
	fusion appconfig.FusionConfig
	log    *logger.Log
}

// Input bundles everything one match run consumes, already resolved by the
// upstream collaborators. The engine never does I/O.
type Input struct {
	MatchName string
	Duration  float64
	Events    []models.RawEvent
	Sentiment []models.SentimentSample
	Loudness  []models.LoudnessSample
}

func NewEngine(fusion appconfig.FusionConfig) *Engine {
	return &Engine{fusion: fusion, log: logger.GetLogger()}
}

// Run produces the Timeline for one match. Configuration problems are fatal
// and reported as an error before any processing happens. The event and curve
// sections are computed independently: a failure in one is recorded on its
// SectionStatus and does not prevent the other from being produced.
func (e *Engine) Run(input Input) (*models.Timeline, error) {
	if err := appconfig.ValidateFusion(&e.fusion); err != nil {
		return nil, err
	}
	tb, err := NewTimeBase(input.Duration, e.fusion.BucketWidthS)
	if err != nil {
		return nil, err
	}

	log := e.log.WithComponent("fusion_engine").WithFields(logger.Fields{
		"match":    input.MatchName,
		"duration": input.Duration,
	})
	log.Info("starting fusion run")

	timeline := &models.Timeline{
		RunID:         uuid.New().String(),
		MatchName:     input.MatchName,
		MatchDuration: input.Duration,
		BucketWidth:   e.fusion.BucketWidthS,
		Events:        []models.CanonicalEvent{},
		Peaks:         []int{},
	}

	events, sentiment, loudness := e.dropMalformed(tb, input, &timeline.Warnings, log)

	// Event section.
	timeline.Events = MergeEvents(events, e.fusion.MergeWindowS, e.fusion.EventConfidenceThreshold)
	timeline.EventSection = models.SectionStatus{Present: true}
	log.WithFields(logger.Fields{
		"raw_events":       len(events),
		"canonical_events": len(timeline.Events),
	}).Info("event merge complete")

	// Curve section, independent of the event section.
	curve, err := Fuse(tb, sentiment, loudness, e.fusion.FusionWeight, e.fusion.SmoothingWindow)
	if err != nil {
		timeline.CurveSection = models.SectionStatus{Present: false, Error: err.Error()}
		log.WithError(err).Error("excitement fusion failed")
		return timeline, nil
	}

	values := make([]float64, len(curve))
	for i := range curve {
		values[i] = curve[i].Excitement
	}
	timeline.Peaks = DetectPeaks(values, e.fusion.PeakThreshold, e.fusion.PeakMinSpacing)
	for _, idx := range timeline.Peaks {
		curve[idx].IsPeak = true
	}
	timeline.Curve = curve
	timeline.CurveSection = models.SectionStatus{Present: true}

	log.WithFields(logger.Fields{
		"buckets": len(curve),
		"peaks":   len(timeline.Peaks),
	}).Info("fusion run complete")

	return timeline, nil
}

// dropMalformed removes samples with negative or out-of-duration timestamps.
// Upstream timing is imprecise at boundaries, so these are counted and
// logged rather than treated as fatal.
func (e *Engine) dropMalformed(tb *TimeBase, input Input, warnings *models.WarningCounts, log *logger.Entry) ([]models.RawEvent, []models.SentimentSample, []models.LoudnessSample) {
	events := make([]models.RawEvent, 0, len(input.Events))
	for _, ev := range input.Events {
		if !tb.Contains(ev.Timestamp) {
			warnings.MalformedEvents++
			continue
		}
		events = append(events, ev)
	}

	sentiment := make([]models.SentimentSample, 0, len(input.Sentiment))
	for _, s := range input.Sentiment {
		if !tb.Contains(s.Timestamp) {
			warnings.MalformedSentiment++
			continue
		}
		sentiment = append(sentiment, s)
	}

	loudness := make([]models.LoudnessSample, 0, len(input.Loudness))
	for _, s := range input.Loudness {
		if !tb.Contains(s.Timestamp) {
			warnings.MalformedLoudness++
			continue
		}
		loudness = append(loudness, s)
	}

	dropped := warnings.MalformedEvents + warnings.MalformedSentiment + warnings.MalformedLoudness
	if dropped > 0 {
		log.WithFields(logger.Fields{
			"malformed_events":    warnings.MalformedEvents,
			"malformed_sentiment": warnings.MalformedSentiment,
			"malformed_loudness":  warnings.MalformedLoudness,
		}).Warn(fmt.Sprintf("dropped %d malformed samples", dropped))
	}

	return events, sentiment, loudness
}
