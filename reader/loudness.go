package reader

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	appconfig "matchflow/config"
	"matchflow/logger"
	"matchflow/models"
)

// LoudnessAnalyzer turns a WAV file into a crowd-noise envelope: one RMS
// sample per fixed window, timestamped at the window start. Raw linear RMS is
// emitted; the fusion stage normalizes per match.
type LoudnessAnalyzer struct {
	config appconfig.LoudnessConfig
	log    *logger.Log
}

func NewLoudnessAnalyzer(cfg appconfig.LoudnessConfig) *LoudnessAnalyzer {
	return &LoudnessAnalyzer{config: cfg, log: logger.GetLogger()}
}

// Analyze decodes the WAV and returns the loudness samples along with the
// audio duration in seconds. The duration anchors the match time axis, so a
// decode failure here is fatal for the whole run.
func (a *LoudnessAnalyzer) Analyze(wavPath string) ([]models.LoudnessSample, float64, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, 0, fmt.Errorf("open audio %s: %w", wavPath, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("decode audio %s: not a valid wav file", wavPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode audio %s: %w", wavPath, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("decode audio %s: missing format", wavPath)
	}

	mono := mixToMono(buf.Data, buf.Format.NumChannels)
	sampleRate := buf.Format.SampleRate
	duration := float64(len(mono)) / float64(sampleRate)

	scale := 1.0
	if dec.BitDepth > 0 {
		scale = float64(int64(1) << (dec.BitDepth - 1))
	}

	windowSamples := int(a.config.WindowS * float64(sampleRate))
	if windowSamples < 1 {
		windowSamples = 1
	}

	samples := []models.LoudnessSample{}
	for start := 0; start < len(mono); start += windowSamples {
		end := start + windowSamples
		if end > len(mono) {
			end = len(mono)
		}
		sum := 0.0
		for _, v := range mono[start:end] {
			s := float64(v) / scale
			sum += s * s
		}
		rms := math.Sqrt(sum / float64(end-start))
		samples = append(samples, models.LoudnessSample{
			Timestamp: float64(start) / float64(sampleRate),
			RawLevel:  rms,
		})
	}

	a.log.WithComponent("loudness_analyzer").WithFields(logger.Fields{
		"audio":       wavPath,
		"duration_s":  duration,
		"sample_rate": sampleRate,
		"windows":     len(samples),
	}).Info("loudness envelope computed")

	return samples, duration, nil
}

// mixToMono averages interleaved channels down to one.
func mixToMono(data []int, channels int) []int {
	if channels <= 1 {
		return data
	}
	frames := len(data) / channels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		mono[i] = sum / channels
	}
	return mono
}
