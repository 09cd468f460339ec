package mnconfig

import (
	"fmt"
	"time"

	"github.com/mnrt-go/mnrt"
	"github.com/mnrt-go/mnrt/pkg/mnlog"
)

// NewScheduler builds an mnrt.Scheduler from c. The logging section is
// installed as the process-wide default logger before the scheduler is
// created so its components pick it up, the worker count feeds
// mnrt.Create, and the stack size becomes the default recorded on
// spawned tasks.
func (c *Config) NewScheduler() (*mnrt.Scheduler, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	loggerCfg, err := c.LoggerConfig()
	if err != nil {
		return nil, err
	}
	mnlog.InitGlobal(loggerCfg)

	sched, err := mnrt.Create(c.Runtime.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("create scheduler from config: %w", err)
	}
	sched.SetDefaultStackSize(c.Runtime.StackSize)
	return sched, nil
}

// Shutdown stops sched, giving up after the configured shutdown timeout
// if a worker is stuck on a task that never reaches a suspension point.
// A non-positive timeout waits indefinitely, like calling Stop directly.
func (c *Config) Shutdown(sched *mnrt.Scheduler) error {
	timeout := c.ShutdownTimeout()
	if timeout <= 0 {
		return sched.Stop()
	}

	done := make(chan error, 1)
	go func() { done <- sched.Stop() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("scheduler did not stop within %s", timeout)
	}
}
