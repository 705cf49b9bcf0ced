// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/scalarvm/scalarvm-go/instrumentation/logfields"
	"github.com/scalarvm/scalarvm-go/synchronization"
	"runtime"
	"time"
)

type runtimeMetrics struct {
	uptimeSeconds   *Gauge
	heapAlloc       *Gauge
	heapSys         *Gauge
	gcCpuPercentage *Gauge
	goroutines      *Gauge
}

type runtimeReporter struct {
	metrics runtimeMetrics
	started time.Time
}

func NewRuntimeReporter(ctx context.Context, metricFactory Factory, logger logfields.Errorer) govnr.ShutdownWaiter {
	r := &runtimeReporter{
		metrics: runtimeMetrics{
			uptimeSeconds:   metricFactory.NewGauge("Runtime.Uptime.Seconds"),
			heapAlloc:       metricFactory.NewGauge("Runtime.HeapAlloc.Bytes"),
			heapSys:         metricFactory.NewGauge("Runtime.HeapSys.Bytes"),
			gcCpuPercentage: metricFactory.NewGauge("Runtime.GCCPUPercentage"),
			goroutines:      metricFactory.NewGauge("Runtime.NumGoroutine.Number"),
		},
		started: time.Now(),
	}

	return synchronization.NewPeriodicalTrigger(ctx, "runtime metric reporter", 5*time.Second, logger, func() {
		r.reportRuntimeMetrics()
	}, nil)
}

func (r *runtimeReporter) reportRuntimeMetrics() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.metrics.uptimeSeconds.Update(int64(time.Since(r.started).Seconds()))
	r.metrics.heapSys.Update(int64(mem.HeapSys))
	r.metrics.heapAlloc.Update(int64(mem.HeapAlloc))
	r.metrics.gcCpuPercentage.Update(int64(mem.GCCPUFraction * 100))
	r.metrics.goroutines.Update(int64(runtime.NumGoroutine()))
}
