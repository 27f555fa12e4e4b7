package app

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	tick := a.appConfig.Exchange.TickInterval
	if tick == "" {
		tick = "@every 5s"
	}
	if _, err := a.sched.AddFunc(tick, a.SchedRateTickTask); err != nil {
		return errors.Wrapf(err, "schedule rate tick %q", tick)
	}

	// inline so Stop().Done() covers them before metrics close
	_, err = a.sched.AddFunc("@every 30s", func() {
		a.SchedSystemMonitorTask()
		a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", a.SchedAuditPurgeTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
	return nil
}

// SchedRateTickTask moves the simulated exchange rate.
func (a *Application) SchedRateTickTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	r := a.ticker.Tick()
	zap.L().Debug("exchange rate tick", zap.Float64("rate", r.Rate))
}

// SchedAuditPurgeTask removes audit rows past retention.
func (a *Application) SchedAuditPurgeTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := a.recorder.Purge(ctx)
	if err != nil {
		zap.L().Error("audit purge failed", zap.Error(err))
		return
	}
	zap.L().Info("audit log purged", zap.Int64("rows", n))
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		a.metrics.SetGauge(metrics.SystemCPU, _cpuuse[0])
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		a.metrics.SetGauge(metrics.SystemMem, float64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		a.metrics.SetGauge(metrics.ProcessCPU, cpuuse)
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		a.metrics.SetGauge(metrics.ProcessMem, float64(meminfo.RSS/1024/1024))
	}
}
