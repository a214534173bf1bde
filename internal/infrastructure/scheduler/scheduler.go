package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when a task is triggered on a stopped scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// TaskFunc is one maintenance pass. The scheduler owns the context;
// tasks should respect its cancellation.
type TaskFunc func(ctx context.Context) error

// Task is a named interval task
type Task struct {
	Name     string
	Interval time.Duration
	Run      TaskFunc
}

// Scheduler runs the queue maintenance loop: wait-time recalculation,
// stale queue cleanup and the daily metrics rollup. Each task ticks
// on its own interval in its own goroutine.
type Scheduler struct {
	logger *zap.Logger

	tasks     []Task
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates an empty scheduler
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds an interval task. Must be called before Start.
func (s *Scheduler) Register(name string, interval time.Duration, run TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, Task{Name: name, Interval: interval, Run: run})
}

// Start launches one goroutine per registered task
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	tasks := s.tasks
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, task := range tasks {
		s.wg.Add(1)
		go s.runLoop(ctx, task)
	}

	s.logger.Info("scheduler started", zap.Int("tasks", len(tasks)))
	return nil
}

// Stop cancels the task loops and waits for in-flight passes to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs a registered task once, outside its interval
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	var task *Task
	for i := range s.tasks {
		if s.tasks[i].Name == name {
			task = &s.tasks[i]
			break
		}
	}
	s.mu.Unlock()

	if task == nil {
		return errors.New("unknown scheduler task: " + name)
	}
	return s.runTask(ctx, *task)
}

func (s *Scheduler) runLoop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Debug("scheduler task loop started",
		zap.String("task", task.Name),
		zap.Duration("interval", task.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.runTask(ctx, task); err != nil {
				s.logger.Error("scheduler task failed",
					zap.String("task", task.Name),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", task.Name),
				zap.Any("panic", r),
			)
		}
	}()

	started := time.Now()
	err = task.Run(ctx)
	if err == nil {
		s.logger.Debug("scheduler task completed",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	return err
}
