package match

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	appconfig "matchflow/config"
	"matchflow/internal/channel"
	"matchflow/logger"
	"matchflow/models"
	"matchflow/processor"
	"matchflow/reader"
	"matchflow/writer"
)

// Extractor pulls the audio track out of a video.
type Extractor interface {
	Extract(ctx context.Context, videoPath string) (string, error)
}

// LoudnessSource produces the loudness envelope and the audio duration.
type LoudnessSource interface {
	Analyze(wavPath string) ([]models.LoudnessSample, float64, error)
}

// Uploader mirrors published artifacts to remote storage.
type Uploader interface {
	Upload(ctx context.Context, matchName string, paths []string) error
}

// Runner executes one complete match analysis: audio extraction,
// transcription, detection and scoring, temporal fusion, artifact export.
// Collaborator failures on the text path degrade the run (the event section
// is marked absent); a failed audio decode is fatal because the audio
// duration anchors the whole time axis.
type Runner struct {
	config      *appconfig.Config
	extractor   Extractor
	transcriber reader.Transcriber
	detector    *reader.EventDetector
	sentiment   *reader.SentimentAnalyzer
	loudness    LoudnessSource
	engine      *processor.Engine
	exporter    *writer.Exporter
	uploader    Uploader
	log         *logger.Log
}

// NewRunner wires the full pipeline from configuration. The S3 uploader is
// only constructed when enabled; everything else is unconditional.
func NewRunner(cfg *appconfig.Config) (*Runner, error) {
	detector, err := reader.NewEventDetector(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config:      cfg,
		extractor:   reader.NewAudioExtractor(cfg.Reader.FFmpeg, reader.NewExecutor()),
		transcriber: reader.NewASRClient(cfg.Reader),
		detector:    detector,
		sentiment:   reader.NewSentimentAnalyzer(),
		loudness:    reader.NewLoudnessAnalyzer(cfg.Reader.Loudness),
		engine:      processor.NewEngine(cfg.Fusion),
		exporter:    writer.NewExporter(cfg.Writer),
		log:         logger.GetLogger(),
	}

	if cfg.Storage.S3.Enabled {
		uploader, err := writer.NewArtifactUploader(cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		r.uploader = uploader
	}

	return r, nil
}

// Run analyzes one video or WAV file end to end.
func (r *Runner) Run(ctx context.Context, job channel.MatchJob) channel.RunResult {
	started := time.Now()
	matchName := Name(job.Path)
	result := channel.RunResult{Job: job, MatchName: matchName}

	log := r.log.WithComponent("match_runner").WithFields(logger.Fields{
		"match": matchName,
		"path":  job.Path,
	})
	log.Info("starting match run")

	wavPath := job.Path
	if !job.SkipTranscode && !strings.EqualFold(filepath.Ext(job.Path), ".wav") {
		extracted, err := r.extractor.Extract(ctx, job.Path)
		if err != nil {
			result.Err = err
			return result
		}
		wavPath = extracted
	}

	loudness, duration, err := r.loudness.Analyze(wavPath)
	if err != nil {
		result.Err = err
		return result
	}
	logger.RecordStreamItem("loudness_samples", len(loudness))

	// The text path degrades instead of failing: without a transcript the
	// curve still comes from loudness alone.
	var events []models.RawEvent
	var sentiment []models.SentimentSample
	var textErr error
	transcript, err := r.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		textErr = err
		log.WithError(err).Warn("transcription unavailable, continuing with audio only")
	} else {
		events = r.detector.Detect(transcript.Segments)
		sentiment = r.sentiment.Analyze(transcript.Segments)
		logger.RecordStreamItem("transcript_segments", len(transcript.Segments))
		logger.RecordStreamItem("raw_events", len(events))
	}

	timeline, err := r.engine.Run(processor.Input{
		MatchName: matchName,
		Duration:  duration,
		Events:    events,
		Sentiment: sentiment,
		Loudness:  loudness,
	})
	if err != nil {
		result.Err = err
		return result
	}
	if textErr != nil {
		timeline.Events = []models.CanonicalEvent{}
		timeline.EventSection = models.SectionStatus{Present: false, Error: textErr.Error()}
	}
	result.Timeline = timeline

	artifacts, err := r.exporter.Export(timeline)
	if err != nil {
		result.Err = err
		return result
	}
	result.Artifacts = artifacts

	if r.uploader != nil {
		if err := r.uploader.Upload(ctx, matchName, artifacts); err != nil {
			result.Err = fmt.Errorf("artifacts published locally but upload failed: %w", err)
			return result
		}
	}

	logger.IncrementMatchRun()
	logger.LogPerformanceEntry(r.log.WithComponent("match_runner"), "match_runner", "run", time.Since(started), logger.Fields{
		"match":     matchName,
		"artifacts": len(artifacts),
	})
	log.WithFields(logger.Fields{
		"duration_s": duration,
		"events":     len(timeline.Events),
		"peaks":      len(timeline.Peaks),
	}).Info("match run complete")

	return result
}
