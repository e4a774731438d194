package cron

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

type CronJob interface {
	Name() string
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

type scheduledJob struct {
	timer   *time.Timer
	running atomic.Bool
}

type CronJobManager struct {
	mutex      sync.Mutex
	running    sync.WaitGroup
	jobs       map[CronJob]*scheduledJob
	done       chan struct{}
	cancelOnce sync.Once
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{
		jobs: make(map[CronJob]*scheduledJob),
		done: make(chan struct{}),
	}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = &scheduledJob{}
}

// Start schedules every registered job and blocks until Cancel is called and
// the runs in flight are finished.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	<-m.done
	m.running.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

// Cancel stops every timer. Runs in flight are completed but never
// rescheduled. It is safe to call before Start and more than once.
func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, scheduled := range m.jobs {
		if scheduled.timer != nil {
			scheduled.timer.Stop()
		} else {
			xcontext.Logger(ctx).Warnf("Stop a job that hasn't been scheduled: %s", job.Name())
		}
	}

	// Clear all jobs to not schedule them again.
	m.jobs = make(map[CronJob]*scheduledJob)
	m.cancelOnce.Do(func() { close(m.done) })
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	scheduled, ok := m.jobs[job]
	if ok {
		m.running.Add(1)
	}
	m.mutex.Unlock()

	if !ok {
		return
	}
	defer m.running.Done()

	// A job never overlaps itself.
	if !scheduled.running.CompareAndSwap(false, true) {
		xcontext.Logger(ctx).Warnf("%s is still running, skip this tick", job.Name())
		return
	}

	xcontext.Logger(ctx).Infof("%s is running...", job.Name())
	start := time.Now()
	job.Do(ctx)
	common.PromHistograms[common.CronJobDurationSeconds].
		WithLabelValues(job.Name()).Observe(time.Since(start).Seconds())
	xcontext.Logger(ctx).Infof("%s ok", job.Name())

	scheduled.running.Store(false)
	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Only schedule jobs which still exist in the job list.
	if scheduled, ok := m.jobs[job]; ok {
		scheduled.timer = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
	}
}
