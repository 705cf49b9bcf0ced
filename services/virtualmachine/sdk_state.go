// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"github.com/orbs-network/membuffers/go"
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
)

// stateScope implements the types.Context storage capability for one call:
// reads come from the transient state first and fall through to committed
// state; writes land in the transient state only. The capability panics on
// invariant violations (write under a read-only scope, storage failure), which
// the processor turns into an aborted call.
type stateScope struct {
	stateReader  StateReader
	contractName types.ContractName
	access       types.AccessScope
	transient    *transientState
}

func (s *stateScope) ReadBytes(key []byte) []byte {
	if value, found := s.transient.getValue(s.contractName, key); found {
		return value
	}

	value, _, err := s.stateReader.ReadKey(s.contractName, string(key))
	if err != nil {
		panic(errors.Wrapf(err, "failed reading key '%s' from state storage", string(key)))
	}

	// cache in transient state (not dirty) so repeated reads in one call are consistent
	s.transient.setValue(s.contractName, key, value, false)
	return value
}

func (s *stateScope) ReadString(key []byte) string {
	return string(s.ReadBytes(key))
}

func (s *stateScope) ReadUint32(key []byte) uint32 {
	bytes := s.ReadBytes(key)
	if len(bytes) == 0 {
		return 0
	}
	return membuffers.GetUint32(bytes)
}

func (s *stateScope) ReadUint64(key []byte) uint64 {
	bytes := s.ReadBytes(key)
	if len(bytes) == 0 {
		return 0
	}
	return membuffers.GetUint64(bytes)
}

func (s *stateScope) WriteBytes(key []byte, value []byte) {
	if s.access != types.ACCESS_SCOPE_READ_WRITE {
		panic(errors.Errorf("write to key '%s' attempted by a method with %s access", string(key), s.access))
	}
	s.transient.setValue(s.contractName, key, value, true)
}

func (s *stateScope) WriteString(key []byte, value string) {
	s.WriteBytes(key, []byte(value))
}

func (s *stateScope) WriteUint32(key []byte, value uint32) {
	bytes := make([]byte, 4)
	membuffers.WriteUint32(bytes, value)
	s.WriteBytes(key, bytes)
}

func (s *stateScope) WriteUint64(key []byte, value uint64) {
	bytes := make([]byte, 8)
	membuffers.WriteUint64(bytes, value)
	s.WriteBytes(key, bytes)
}
