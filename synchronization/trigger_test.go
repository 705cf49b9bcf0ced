// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/scalarvm/scalarvm-go/test/with"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerFiresPeriodically(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		var fired int32
		trigger := NewPeriodicalTrigger(context.Background(), "test trigger", time.Millisecond, parent.Logger, func() {
			atomic.AddInt32(&fired, 1)
		}, nil)
		defer trigger.Stop()

		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&fired) >= 3
		}, time.Second, time.Millisecond)
	})
}

func TestTriggerRunsOnStopWhenStopped(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		stopped := make(chan struct{})
		trigger := NewPeriodicalTrigger(context.Background(), "test trigger", time.Hour, parent.Logger, func() {}, func() {
			close(stopped)
		})

		trigger.Stop()

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("onStop did not run after Stop()")
		}
	})
}

func TestTriggerStopsWhenContextEnds(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		ctx, cancel := context.WithCancel(context.Background())
		trigger := NewPeriodicalTrigger(ctx, "test trigger", time.Hour, parent.Logger, func() {}, nil)

		cancel()

		select {
		case <-trigger.Closed:
		case <-time.After(time.Second):
			t.Fatal("trigger did not close after its context ended")
		}
	})
}
