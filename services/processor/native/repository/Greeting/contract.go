// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package greeting_contract

import (
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
)

const CONTRACT_NAME = "Greeting"

var CONTRACT = types.ContractInfo{
	Name: CONTRACT_NAME,
	Methods: map[types.MethodName]types.MethodInfo{
		METHOD_INIT.Name:        METHOD_INIT,
		METHOD_CONSTRUCTOR.Name: METHOD_CONSTRUCTOR,
		METHOD_GREET.Name:       METHOD_GREET,
	},
}

var KEY_GREET = []byte("greet")
var KEY_INITIALIZED = []byte("initialized")

const GREETING = "Hello World!"

///////////////////////////////////////////////////////////////////////////

var METHOD_INIT = types.MethodInfo{
	Name:           "_init",
	External:       false,
	Access:         types.ACCESS_SCOPE_READ_ONLY,
	Implementation: _init,
}

func _init(ctx types.Context) error {
	return nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_CONSTRUCTOR = types.MethodInfo{
	Name:           "constructor",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_WRITE,
	Implementation: constructor,
}

// Writes the greeting exactly once over the contract's lifetime. The greeting
// is written before the flag is raised, and both records commit as one unit,
// so a failed call can never leave the flag up with the greeting missing.
func constructor(ctx types.Context) error {
	return types.InitializeOnce(ctx, KEY_INITIALIZED, func() {
		ctx.WriteString(KEY_GREET, GREETING)
	})
}

///////////////////////////////////////////////////////////////////////////

var METHOD_GREET = types.MethodInfo{
	Name:           "greet",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_ONLY,
	Implementation: greet,
}

func greet(ctx types.Context) (string, error) {
	return ctx.ReadString(KEY_GREET), nil
}
