package channel

import (
	"context"
	"sync"

	"matchflow/logger"
	"matchflow/models"
)

// MatchJob is one video (or pre-extracted WAV) queued for analysis.
// SkipTranscode marks the input as already-extracted audio regardless of its
// file extension.
type MatchJob struct {
	Path          string
	SkipTranscode bool
}

// RunResult reports the outcome of one match run back to the submitter.
type RunResult struct {
	Job       MatchJob
	MatchName string
	Timeline  *models.Timeline
	Artifacts []string
	Err       error
}

type ChannelStats struct {
	JobsSent       int64
	ResultsSent    int64
	JobsDropped    int64
	ResultsDropped int64
}

// Channels connects the watcher to the match worker pool. Jobs and results
// are buffered; a full job buffer drops new arrivals rather than blocking the
// filesystem watcher, and the drop is counted.
type Channels struct {
	Jobs    chan MatchJob
	Results chan RunResult

	stats      ChannelStats
	statsMutex sync.RWMutex
	log        *logger.Log
}

func NewChannels(jobBufferSize, resultBufferSize int) *Channels {
	log := logger.GetLogger()
	c := &Channels{
		Jobs:    make(chan MatchJob, jobBufferSize),
		Results: make(chan RunResult, resultBufferSize),
		log:     log,
	}

	log.WithComponent("match_channels").WithFields(logger.Fields{
		"job_buffer_size":    jobBufferSize,
		"result_buffer_size": resultBufferSize,
	}).Info("match channels initialized")

	return c
}

func (c *Channels) Close() {
	close(c.Jobs)
	close(c.Results)
	c.log.WithComponent("match_channels").Info("match channels closed")
}

func (c *Channels) SendJob(ctx context.Context, job MatchJob) bool {
	select {
	case c.Jobs <- job:
		c.statsMutex.Lock()
		c.stats.JobsSent++
		c.statsMutex.Unlock()
		return true
	case <-ctx.Done():
		return false
	default:
		c.statsMutex.Lock()
		c.stats.JobsDropped++
		c.statsMutex.Unlock()
		c.log.WithComponent("match_channels").WithFields(logger.Fields{
			"path": job.Path,
		}).Warn("job buffer full, dropping match job")
		return false
	}
}

func (c *Channels) SendResult(ctx context.Context, result RunResult) bool {
	select {
	case c.Results <- result:
		c.statsMutex.Lock()
		c.stats.ResultsSent++
		c.statsMutex.Unlock()
		return true
	case <-ctx.Done():
		return false
	default:
		c.statsMutex.Lock()
		c.stats.ResultsDropped++
		c.statsMutex.Unlock()
		return false
	}
}

// DrainResults consumes results and hands each to fn until the context is
// cancelled or the results channel is closed. It blocks, so callers run it in
// its own goroutine.
func (c *Channels) DrainResults(ctx context.Context, fn func(RunResult)) {
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-c.Results:
			if !ok {
				return
			}
			fn(result)
		}
	}
}

func (c *Channels) GetStats() ChannelStats {
	c.statsMutex.RLock()
	defer c.statsMutex.RUnlock()
	return c.stats
}
