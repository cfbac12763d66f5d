package reader

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	appconfig "matchflow/config"
	"matchflow/logger"
)

// AudioExtractor pulls the audio track out of a match video as mono PCM WAV,
// the format the transcription service and the loudness analyzer both expect.
type AudioExtractor struct {
	config   appconfig.FFmpegConfig
	executor Executor
	log      *logger.Log
}

func NewAudioExtractor(cfg appconfig.FFmpegConfig, executor Executor) *AudioExtractor {
	return &AudioExtractor{
		config:   cfg,
		executor: executor,
		log:      logger.GetLogger(),
	}
}

// Extract writes the audio track of videoPath as a WAV next to it and returns
// the WAV path. An existing file at the output path is overwritten.
func (a *AudioExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"

	log := a.log.WithComponent("audio_extractor").WithFields(logger.Fields{
		"video": videoPath,
		"audio": audioPath,
	})
	log.Info("extracting audio track")

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(a.config.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := a.executor.Execute(ctx, a.config.BinaryPath, args...); err != nil {
		log.WithError(err).Error("audio extraction failed")
		return "", fmt.Errorf("extract audio from %s: %w", videoPath, err)
	}

	log.Info("audio track extracted")
	return audioPath, nil
}
