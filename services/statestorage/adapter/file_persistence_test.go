// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"github.com/orbs-network/scribe/log"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func newTempSnapshotPath(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "state-persistence")
	require.NoError(t, err)
	return filepath.Join(dir, "state.json"), func() { os.RemoveAll(dir) }
}

func TestFilePersistenceStartsEmptyWithoutSnapshot(t *testing.T) {
	path, cleanup := newTempSnapshotPath(t)
	defer cleanup()

	sp, err := NewFileStatePersistence(path, log.DefaultTestingLogger(t), metric.NewRegistry())
	require.NoError(t, err)

	_, found, err := sp.Read("Contract1", "key1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFilePersistenceSurvivesRestart(t *testing.T) {
	path, cleanup := newTempSnapshotPath(t)
	defer cleanup()

	sp, err := NewFileStatePersistence(path, log.DefaultTestingLogger(t), metric.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, sp.Write(ChainState{"Contract1": {"key1": []byte("value1")}}))

	// a new instance over the same file simulates a process restart
	reloaded, err := NewFileStatePersistence(path, log.DefaultTestingLogger(t), metric.NewRegistry())
	require.NoError(t, err)

	value, found, err := reloaded.Read("Contract1", "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("value1"), value)
}

func TestFilePersistenceRejectsCorruptSnapshot(t *testing.T) {
	path, cleanup := newTempSnapshotPath(t)
	defer cleanup()

	require.NoError(t, ioutil.WriteFile(path, []byte("not json"), 0644))

	_, err := NewFileStatePersistence(path, log.DefaultTestingLogger(t), metric.NewRegistry())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse state snapshot")
}
