// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package statestorage

import (
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"sync"
	"time"
)

var LogTag = log.Service("state-storage")

type metrics struct {
	commitTime      *metric.Histogram
	numberOfCommits *metric.Gauge
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		commitTime:      m.NewLatency("StateStorage.CommitTime.Millis", 10*time.Second),
		numberOfCommits: m.NewGauge("StateStorage.TotalNumberOfCommits.Count"),
	}
}

// Service owns all access to the persistent key space. Commits are serialized
// with a mutex; each committed diff is applied to the adapter as one unit.
type Service struct {
	logger      log.Logger
	persistence adapter.StatePersistence

	commitMutex sync.Mutex
	metrics     *metrics
}

func NewStateStorage(persistence adapter.StatePersistence, parentLogger log.Logger, metricFactory metric.Factory) *Service {
	return &Service{
		logger:      parentLogger.WithTags(LogTag),
		persistence: persistence,
		metrics:     getMetrics(metricFactory),
	}
}

func (s *Service) ReadKey(contract types.ContractName, key string) ([]byte, bool, error) {
	value, found, err := s.persistence.Read(contract, key)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read key '%s' of contract '%s'", key, contract)
	}
	return value, found, nil
}

func (s *Service) CommitDiff(diff adapter.ChainState) error {
	s.commitMutex.Lock()
	defer s.commitMutex.Unlock()

	start := time.Now()
	defer s.metrics.commitTime.RecordSince(start)

	if err := s.persistence.Write(diff); err != nil {
		return errors.Wrap(err, "failed to commit state diff")
	}

	s.metrics.numberOfCommits.Inc()
	s.logger.Info("committed state diff", log.Int("contracts", len(diff)))
	return nil
}

// Dump returns the full state in a deterministic textual form, for debugging.
func (s *Service) Dump() string {
	return s.persistence.Dump()
}
