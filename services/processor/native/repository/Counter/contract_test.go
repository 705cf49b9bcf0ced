// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter_contract

import (
	"github.com/scalarvm/scalarvm-go/services/processor/native/testkit"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestCounterStartsAtZero(t *testing.T) {
	ctx := testkit.NewFakeContext()

	value, err := count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, value)
}

func TestIncrementAndDecrement(t *testing.T) {
	ctx := testkit.NewFakeContext()

	require.NoError(t, inc(ctx))
	require.NoError(t, inc(ctx))
	require.NoError(t, inc(ctx))
	require.NoError(t, dec(ctx))

	value, err := count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, value)
}

func TestDecrementAtZeroUnderflows(t *testing.T) {
	ctx := testkit.NewFakeContext()

	err := dec(ctx)
	require.EqualError(t, err, ErrUnderflow.Error())

	value, err := count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, value, "a failed decrement must not change the counter")
}

func TestIncrementAtMaxOverflows(t *testing.T) {
	ctx := testkit.NewFakeContext()
	ctx.WriteUint64(KEY_COUNT, math.MaxUint64)

	err := inc(ctx)
	require.EqualError(t, err, ErrOverflow.Error())

	value, err := count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), value, "a failed increment must not change the counter")
}

func TestGetIsAnAliasOfCount(t *testing.T) {
	getMethod, found := CONTRACT.Method("get")
	require.True(t, found)
	countMethod, found := CONTRACT.Method("count")
	require.True(t, found)

	require.Equal(t, countMethod.Access, getMethod.Access)
	require.Equal(t, countMethod.External, getMethod.External)

	ctx := testkit.NewFakeContext()
	require.NoError(t, inc(ctx))

	value, err := getMethod.Implementation.(func(types.Context) (uint64, error))(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, value)
}
