// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter_contract

import (
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"math"
)

const CONTRACT_NAME = "Counter"

var CONTRACT = types.ContractInfo{
	Name: CONTRACT_NAME,
	Methods: map[types.MethodName]types.MethodInfo{
		METHOD_INIT.Name:  METHOD_INIT,
		METHOD_COUNT.Name: METHOD_COUNT,
		METHOD_GET.Name:   METHOD_GET,
		METHOD_INC.Name:   METHOD_INC,
		METHOD_DEC.Name:   METHOD_DEC,
	},
}

var KEY_COUNT = []byte("count")

var ErrUnderflow = errors.New("counter underflow: cannot decrement below zero")
var ErrOverflow = errors.New("counter overflow: cannot increment above maximum value")

///////////////////////////////////////////////////////////////////////////

var METHOD_INIT = types.MethodInfo{
	Name:           "_init",
	External:       false,
	Access:         types.ACCESS_SCOPE_READ_ONLY,
	Implementation: _init,
}

// the counter starts at the storage default, nothing to set up
func _init(ctx types.Context) error {
	return nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_COUNT = types.MethodInfo{
	Name:           "count",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_ONLY,
	Implementation: count,
}

// METHOD_GET is a second public name for the same read. Both entries share one
// Implementation value, so the two can never diverge.
var METHOD_GET = types.MethodInfo{
	Name:           "get",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_ONLY,
	Implementation: count,
}

func count(ctx types.Context) (uint64, error) {
	return ctx.ReadUint64(KEY_COUNT), nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_INC = types.MethodInfo{
	Name:           "inc",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_WRITE,
	Implementation: inc,
}

func inc(ctx types.Context) error {
	value := ctx.ReadUint64(KEY_COUNT)
	if value == math.MaxUint64 {
		return ErrOverflow
	}
	ctx.WriteUint64(KEY_COUNT, value+1)
	return nil
}

///////////////////////////////////////////////////////////////////////////

var METHOD_DEC = types.MethodInfo{
	Name:           "dec",
	External:       true,
	Access:         types.ACCESS_SCOPE_READ_WRITE,
	Implementation: dec,
}

// an unguarded subtraction at zero would wrap to math.MaxUint64 and silently
// corrupt the counter, so zero is a checked error instead
func dec(ctx types.Context) error {
	value := ctx.ReadUint64(KEY_COUNT)
	if value == 0 {
		return ErrUnderflow
	}
	ctx.WriteUint64(KEY_COUNT, value-1)
	return nil
}
