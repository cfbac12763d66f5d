package match

import (
	"context"
	"fmt"
	"sync"

	"matchflow/internal/channel"
	"matchflow/logger"
)

// Pool runs match jobs from the job channel on a fixed number of workers.
// Each job is an isolated run: workers share no mutable state beyond the
// channels, so one bad video never affects another match.
type Pool struct {
	runner   *Runner
	channels *channel.Channels
	workers  int

	ctx     context.Context
	wg      *sync.WaitGroup
	mu      sync.RWMutex
	running bool
	log     *logger.Log
}

func NewPool(runner *Runner, channels *channel.Channels, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		runner:   runner,
		channels: channels,
		workers:  workers,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("match pool already running")
	}
	p.running = true
	p.ctx = ctx
	p.mu.Unlock()

	log := p.log.WithComponent("match_pool")
	log.WithFields(logger.Fields{"workers": p.workers}).Info("starting match workers")

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Info("match pool started successfully")
	return nil
}

func (p *Pool) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.log.WithComponent("match_pool").Info("stopping match pool")
	p.wg.Wait()
	p.log.WithComponent("match_pool").Info("match pool stopped")
}

func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.WithComponent("match_pool").WithFields(logger.Fields{"worker_id": workerID})
	log.Info("match worker started")

	for {
		select {
		case <-p.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case job, ok := <-p.channels.Jobs:
			if !ok {
				log.Info("job channel closed, worker stopping")
				return
			}

			result := p.runner.Run(p.ctx, job)
			if result.Err != nil {
				log.WithError(result.Err).WithFields(logger.Fields{
					"match": result.MatchName,
					"path":  job.Path,
				}).Error("match run failed")
			}
			p.channels.SendResult(p.ctx, result)
		}
	}
}
