package worker

import (
	"context"
	"sync"
	"time"

	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/tasks"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

const cpuBackoff = 5 * time.Second

// Worker drains the transcode queue with a fixed pool of goroutines, each
// admission-gated on CPU load.
type Worker struct {
	cfg       *config.Config
	logger    logger.Logger
	redisRepo tasks.RedisRepository
	processor *Processor
	wg        sync.WaitGroup
}

func NewWorker(cfg *config.Config, log logger.Logger, redisRepo tasks.RedisRepository, processor *Processor) *Worker {
	return &Worker{
		cfg:       cfg,
		logger:    log,
		redisRepo: redisRepo,
		processor: processor,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Infof("starting %d workers", w.cfg.Worker.WorkerCount)
	for i := 0; i < w.cfg.Worker.WorkerCount; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if canAcceptJob, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !canAcceptJob {
			w.logger.Infof("worker %d: CPU usage too high (%.1f%%), backing off", id, usage)
			select {
			case <-ctx.Done():
				return
			case <-time.After(cpuBackoff):
			}
			continue
		}

		job, err := w.redisRepo.DequeueJob(ctx, w.cfg.Redis.JobQueueKey)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("worker %d: dequeue failed: %v", id, err)
			time.Sleep(time.Second)
			continue
		}

		w.logger.Infof("worker %d: picked up task %s", id, job.TaskID)
		jobCtx := ctx
		cancel := func() {}
		if w.cfg.Worker.JobTimeout > 0 {
			jobCtx, cancel = context.WithTimeout(ctx, w.cfg.Worker.JobTimeout)
		}
		if err = w.processor.Process(jobCtx, job); err != nil {
			w.logger.Errorf("worker %d: task %s failed: %v", id, job.TaskID, err)
		}
		cancel()
	}
}
