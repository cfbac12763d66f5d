package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	appconfig "matchflow/config"
	"matchflow/logger"
	"matchflow/models"
)

// Transcriber produces a timestamped transcript for a WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (*models.Transcript, error)
}

// ASRClient talks to an HTTP transcription service. Uploads are rate limited
// and retried with exponential backoff because the service queues whole-match
// audio files and rejects bursts.
type ASRClient struct {
	config  appconfig.ASRConfig
	retry   appconfig.RetryConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Log
}

func NewASRClient(cfg appconfig.ReaderConfig) *ASRClient {
	rl := cfg.RateLimit
	rps := rl.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := rl.BurstSize
	if burst <= 0 {
		burst = 1
	}

	return &ASRClient{
		config:  cfg.ASR,
		retry:   cfg.Retry,
		client:  &http.Client{Timeout: cfg.ASR.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     logger.GetLogger(),
	}
}

type asrResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the WAV and returns the decoded transcript. Attempts are
// spaced by the configured backoff; a context cancellation ends the retry
// loop immediately.
func (c *ASRClient) Transcribe(ctx context.Context, wavPath string) (*models.Transcript, error) {
	log := c.log.WithComponent("asr_client").WithFields(logger.Fields{"audio": wavPath})

	delay := c.retry.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		transcript, err := c.transcribeOnce(ctx, wavPath)
		if err == nil {
			log.WithFields(logger.Fields{
				"segments": len(transcript.Segments),
				"language": transcript.Language,
				"attempt":  attempt,
			}).Info("transcription complete")
			return transcript, nil
		}
		lastErr = err
		log.WithError(err).WithFields(logger.Fields{"attempt": attempt}).Warn("transcription attempt failed")

		if attempt == c.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= time.Duration(c.retry.BackoffMultiplier)
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}

	return nil, fmt.Errorf("transcribe %s after %d attempts: %w", wavPath, c.retry.MaxAttempts, lastErr)
}

func (c *ASRClient) transcribeOnce(ctx context.Context, wavPath string) (*models.Transcript, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("asr %s: %s", resp.Status, string(msg))
	}

	var out asrResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}

	transcript := &models.Transcript{
		Text:     out.Text,
		Language: out.Language,
		Segments: make([]models.TranscriptSegment, 0, len(out.Segments)),
	}
	for _, s := range out.Segments {
		transcript.Segments = append(transcript.Segments, models.TranscriptSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}
	return transcript, nil
}
