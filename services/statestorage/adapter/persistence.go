// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
)

// ChainState maps contract name -> storage key -> stored value. A zero-length
// value in a diff means "delete the key".
type ChainState map[types.ContractName]map[string][]byte

// StatePersistence is the host's durable key-value capability. Write applies a
// whole diff; the adapter must make the entire diff visible to subsequent
// reads or none of it.
type StatePersistence interface {
	Write(diff ChainState) error
	Read(contract types.ContractName, key string) ([]byte, bool, error)
	Dump() string
}
