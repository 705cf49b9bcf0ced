// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package repository

import (
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository/Counter"
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository/Greeting"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
)

// Contracts is the prebuilt repository: every contract deployed with the node
// binary, keyed by name.
var Contracts = map[types.ContractName]*types.ContractInfo{
	counter_contract.CONTRACT.Name:  &counter_contract.CONTRACT,
	greeting_contract.CONTRACT.Name: &greeting_contract.CONTRACT,
}
