// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
)

type keyValuePair struct {
	key     []byte
	value   []byte
	isDirty bool
}

type contractTransientState struct {
	pairs map[string]*keyValuePair

	// dirty keys in write order, so commits apply deterministically
	dirtyKeys []string
}

// transientState buffers all storage writes of a single call. Dirty pairs are
// merged into persistent state only if the call succeeds; on abort the whole
// struct is discarded, leaving persistent state byte-for-byte unchanged.
type transientState struct {
	contracts map[types.ContractName]*contractTransientState
}

func newTransientState() *transientState {
	return &transientState{contracts: make(map[types.ContractName]*contractTransientState)}
}

func (t *transientState) getValue(contract types.ContractName, key []byte) ([]byte, bool) {
	c, found := t.contracts[contract]
	if !found {
		return nil, false
	}
	pair, found := c.pairs[string(key)]
	if !found {
		return nil, false
	}
	return pair.value, true
}

func (t *transientState) setValue(contract types.ContractName, key []byte, value []byte, isDirty bool) {
	c, found := t.contracts[contract]
	if !found {
		c = &contractTransientState{pairs: make(map[string]*keyValuePair)}
		t.contracts[contract] = c
	}

	pair, exists := c.pairs[string(key)]
	if exists {
		if isDirty && !pair.isDirty {
			c.dirtyKeys = append(c.dirtyKeys, string(key))
		}
		pair.value = value
		pair.isDirty = pair.isDirty || isDirty
		return
	}

	c.pairs[string(key)] = &keyValuePair{key: key, value: value, isDirty: isDirty}
	if isDirty {
		c.dirtyKeys = append(c.dirtyKeys, string(key))
	}
}

func (t *transientState) forDirty(contract types.ContractName, f func(key []byte, value []byte)) {
	c, found := t.contracts[contract]
	if !found {
		return
	}
	for _, key := range c.dirtyKeys {
		pair := c.pairs[key]
		f(pair.key, pair.value)
	}
}
