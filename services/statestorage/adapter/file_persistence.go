// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"encoding/json"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"io/ioutil"
	"os"
	"path/filepath"
)

// FileStatePersistence keeps the full state in memory and snapshots it to a
// JSON file after every applied diff, so state survives process restarts. The
// snapshot is written to a temp file and renamed into place; a crash mid-write
// leaves the previous snapshot intact.
type FileStatePersistence struct {
	*InMemoryStatePersistence
	filePath string
	logger   log.Logger
}

func NewFileStatePersistence(filePath string, logger log.Logger, metricFactory metric.Factory) (*FileStatePersistence, error) {
	sp := &FileStatePersistence{
		InMemoryStatePersistence: NewInMemoryStatePersistence(metricFactory),
		filePath:                 filePath,
		logger:                   logger.WithTags(log.String("adapter", "file-state-persistence")),
	}

	if err := sp.load(); err != nil {
		return nil, err
	}

	return sp, nil
}

func (sp *FileStatePersistence) Write(diff ChainState) error {
	if err := sp.InMemoryStatePersistence.Write(diff); err != nil {
		return err
	}
	return sp.flush()
}

func (sp *FileStatePersistence) load() error {
	contents, err := ioutil.ReadFile(sp.filePath)
	if os.IsNotExist(err) {
		sp.logger.Info("no state snapshot found, starting from empty state", log.String("path", sp.filePath))
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read state snapshot at %s", sp.filePath)
	}

	snapshot := map[types.ContractName]map[string][]byte{}
	if err := json.Unmarshal(contents, &snapshot); err != nil {
		return errors.Wrapf(err, "failed to parse state snapshot at %s", sp.filePath)
	}

	return sp.InMemoryStatePersistence.Write(snapshot)
}

func (sp *FileStatePersistence) flush() error {
	sp.mutex.RLock()
	contents, err := json.Marshal(sp.fullState)
	sp.mutex.RUnlock()
	if err != nil {
		return errors.Wrap(err, "failed to serialize state snapshot")
	}

	tempFile, err := ioutil.TempFile(filepath.Dir(sp.filePath), "state")
	if err != nil {
		return errors.Wrap(err, "failed to create temp state snapshot")
	}

	if _, err := tempFile.Write(contents); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return errors.Wrap(err, "failed to write temp state snapshot")
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return errors.Wrap(err, "failed to close temp state snapshot")
	}

	return os.Rename(tempFile.Name(), sp.filePath)
}
