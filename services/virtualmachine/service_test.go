// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/membuffers/go"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"github.com/scalarvm/scalarvm-go/test/with"
	"github.com/stretchr/testify/require"
	"testing"
)

type stateStorageMock struct {
	mock.Mock
}

func (m *stateStorageMock) ReadKey(contract types.ContractName, key string) ([]byte, bool, error) {
	ret := m.Mock.Called(contract, key)
	return ret.Get(0).([]byte), ret.Bool(1), ret.Error(2)
}

func (m *stateStorageMock) CommitDiff(diff adapter.ChainState) error {
	return m.Mock.Called(diff).Error(0)
}

func newVmHarness(parent *with.LoggingHarness, contracts map[types.ContractName]*types.ContractInfo) (*Service, *stateStorageMock) {
	registry := metric.NewRegistry()
	storage := &stateStorageMock{}
	processor := native.NewNativeProcessor(contracts, parent.Logger, registry)
	return NewVirtualMachine(storage, processor, contracts, parent.Logger, registry), storage
}

func requireMockVerified(t testing.TB, m *stateStorageMock) {
	ok, err := m.Verify()
	require.True(t, ok, "state storage mock called incorrectly")
	require.NoError(t, err)
}

func uint64Bytes(value uint64) []byte {
	bytes := make([]byte, 8)
	membuffers.WriteUint64(bytes, value)
	return bytes
}

func TestTransactionCommitsWritesOnSuccess(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		storage.When("ReadKey", types.ContractName("Counter"), "count").Return([]byte(nil), false, nil).Times(1)

		var committed adapter.ChainState
		storage.When("CommitDiff", mock.Any).Call(func(diff adapter.ChainState) error {
			committed = diff
			return nil
		}).Times(1)

		output, err := vm.ProcessTransaction(context.Background(), "Counter", "inc", nil)
		require.NoError(t, err)
		require.Equal(t, native.CALL_RESULT_SUCCESS, output.CallResult)

		require.Len(t, committed, 1)
		require.EqualValues(t, 1, membuffers.GetUint64(committed["Counter"]["count"]))
		requireMockVerified(t, storage)
	})
}

func TestAbortedTransactionCommitsNothing(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		storage.When("ReadKey", types.ContractName("Counter"), "count").Return([]byte(nil), false, nil).Times(1)
		storage.When("CommitDiff", mock.Any).Return(nil).Times(0)

		output, err := vm.ProcessTransaction(context.Background(), "Counter", "dec", nil)
		require.NoError(t, err, "a contract-level abort is not a system error")
		require.Equal(t, native.CALL_RESULT_ERROR_CONTRACT, output.CallResult)
		require.EqualError(t, output.CallError, "counter underflow: cannot decrement below zero")
		requireMockVerified(t, storage)
	})
}

func TestQueryReadsCommittedStateWithoutCommitting(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		storage.When("ReadKey", types.ContractName("Counter"), "count").Return(uint64Bytes(7), true, nil).Times(1)
		storage.When("CommitDiff", mock.Any).Return(nil).Times(0)

		output, err := vm.RunQuery(context.Background(), "Counter", "count", nil)
		require.NoError(t, err)
		require.Equal(t, native.CALL_RESULT_SUCCESS, output.CallResult)
		require.Equal(t, []interface{}{uint64(7)}, output.OutputArguments)
		requireMockVerified(t, storage)
	})
}

func TestQueryRejectsReadWriteMethod(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		output, err := vm.RunQuery(context.Background(), "Counter", "inc", nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot run as a query")
		require.Equal(t, native.CALL_RESULT_ERROR_INPUT, output.CallResult)
		requireMockVerified(t, storage)
	})
}

func TestTransactionOfUnknownContractIsRejected(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		output, err := vm.ProcessTransaction(context.Background(), "NoSuchContract", "inc", nil)
		require.EqualError(t, err, "contract 'NoSuchContract' not found")
		require.Equal(t, native.CALL_RESULT_ERROR_INPUT, output.CallResult)
		requireMockVerified(t, storage)
	})
}

func TestWriteUnderReadOnlyScopeAbortsTheCall(t *testing.T) {
	misbehaving := &types.ContractInfo{
		Name: "Misbehaving",
		Methods: map[types.MethodName]types.MethodInfo{
			"sneakyWrite": {
				Name:     "sneakyWrite",
				External: true,
				Access:   types.ACCESS_SCOPE_READ_ONLY,
				Implementation: func(ctx types.Context) error {
					ctx.WriteString([]byte("key1"), "value1")
					return nil
				},
			},
		},
	}

	with.Logging(t, func(parent *with.LoggingHarness) {
		contracts := map[types.ContractName]*types.ContractInfo{misbehaving.Name: misbehaving}
		vm, storage := newVmHarness(parent, contracts)

		storage.When("CommitDiff", mock.Any).Return(nil).Times(0)

		output, err := vm.ProcessTransaction(context.Background(), "Misbehaving", "sneakyWrite", nil)
		require.NoError(t, err)
		require.Equal(t, native.CALL_RESULT_ERROR_CONTRACT, output.CallResult)
		require.Contains(t, output.CallError.Error(), "write to key 'key1' attempted by a method with READ_ONLY access")
		requireMockVerified(t, storage)
	})
}

func TestInitContractsRunsEveryInitHook(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		vm, storage := newVmHarness(parent, repository.Contracts)

		storage.When("CommitDiff", mock.Any).Return(nil).Times(0)

		err := vm.InitContracts(context.Background())
		require.NoError(t, err, "the _init hooks of the repository contracts are no-ops and must succeed")
		requireMockVerified(t, storage)
	})
}
