package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrPoolStopped   = errors.New("worker pool is stopped")
	ErrQueueFull     = errors.New("worker pool task queue is full")
	ErrPoolNotActive = errors.New("worker pool is not started")
)

type Task func()

type WorkerPool struct {
	tasks         chan Task
	wg            sync.WaitGroup
	maxWorkers    int
	submitTimeout time.Duration
	logger        zerolog.Logger

	// mu защищает жизненный цикл, statsMu - счётчики воркеров.
	mu      sync.RWMutex
	started bool
	stopped bool

	statsMu  sync.Mutex
	active   int
	executed int64
	panicked int64
}

func NewWorkerPool(maxWorkers, queueSize int, submitTimeout time.Duration, logger zerolog.Logger) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = maxWorkers * 10
	}
	return &WorkerPool{
		tasks:         make(chan Task, queueSize),
		maxWorkers:    maxWorkers,
		submitTimeout: submitTimeout,
		logger:        logger.With().Str("component", "worker_pool").Logger(),
	}
}

func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.stopped {
		return
	}
	wp.started = true

	for i := 0; i < wp.maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	wp.logger.Info().Int("max_workers", wp.maxWorkers).Msg("Worker pool started")
}

// Stop дожидается выполнения уже принятых задач.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info().Msg("Worker pool stopped")
}

func (wp *WorkerPool) Submit(task Task) error {
	// RLock держится до конца отправки, чтобы Stop не закрыл канал под нами.
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return ErrPoolStopped
	}
	if !wp.started {
		return ErrPoolNotActive
	}

	select {
	case wp.tasks <- task:
		return nil
	default:
	}

	if wp.submitTimeout <= 0 {
		wp.logger.Warn().Msg("Worker pool task queue is full")
		return ErrQueueFull
	}

	timer := time.NewTimer(wp.submitTimeout)
	defer timer.Stop()
	select {
	case wp.tasks <- task:
		return nil
	case <-timer.C:
		wp.logger.Error().Msg("Failed to submit task to worker pool (timeout)")
		return ErrQueueFull
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		wp.run(id, task)
	}

	wp.logger.Debug().Int("worker_id", id).Msg("Worker stopped")
}

func (wp *WorkerPool) run(id int, task Task) {
	wp.statsMu.Lock()
	wp.active++
	wp.statsMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error().
				Int("worker_id", id).
				Interface("panic", r).
				Msg("Worker recovered from panic")
			wp.statsMu.Lock()
			wp.panicked++
			wp.statsMu.Unlock()
		}

		wp.statsMu.Lock()
		wp.active--
		wp.executed++
		wp.statsMu.Unlock()
	}()

	task()
}

type Stats struct {
	ActiveWorkers int   `json:"active_workers"`
	MaxWorkers    int   `json:"max_workers"`
	QueueLength   int   `json:"queue_length"`
	QueueCapacity int   `json:"queue_capacity"`
	Executed      int64 `json:"executed"`
	Panicked      int64 `json:"panicked"`
}

func (wp *WorkerPool) Stats() Stats {
	wp.statsMu.Lock()
	defer wp.statsMu.Unlock()

	return Stats{
		ActiveWorkers: wp.active,
		MaxWorkers:    wp.maxWorkers,
		QueueLength:   len(wp.tasks),
		QueueCapacity: cap(wp.tasks),
		Executed:      wp.executed,
		Panicked:      wp.panicked,
	}
}
