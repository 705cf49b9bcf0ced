// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package acceptance

import (
	"context"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"github.com/scalarvm/scalarvm-go/services/statestorage"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"github.com/scalarvm/scalarvm-go/services/virtualmachine"
	"github.com/scalarvm/scalarvm-go/test/with"
	"github.com/stretchr/testify/require"
	"testing"
)

// harness runs the full contract execution stack against real in-memory
// persistence, without the http gateway.
type harness struct {
	t  *testing.T
	vm *virtualmachine.Service
}

func newHarness(t *testing.T, parent *with.LoggingHarness) *harness {
	registry := metric.NewRegistry()
	persistence := adapter.NewInMemoryStatePersistence(registry)
	stateStorage := statestorage.NewStateStorage(persistence, parent.Logger, registry)
	processor := native.NewNativeProcessor(repository.Contracts, parent.Logger, registry)
	vm := virtualmachine.NewVirtualMachine(stateStorage, processor, repository.Contracts, parent.Logger, registry)

	require.NoError(t, vm.InitContracts(context.Background()))

	return &harness{t: t, vm: vm}
}

func (h *harness) transact(contract types.ContractName, method types.MethodName) *native.ProcessCallOutput {
	output, _ := h.vm.ProcessTransaction(context.Background(), contract, method, nil)
	require.NotNil(h.t, output)
	return output
}

func (h *harness) query(contract types.ContractName, method types.MethodName) *native.ProcessCallOutput {
	output, _ := h.vm.RunQuery(context.Background(), contract, method, nil)
	require.NotNil(h.t, output)
	return output
}

func (h *harness) requireSuccess(output *native.ProcessCallOutput) {
	require.Equal(h.t, native.CALL_RESULT_SUCCESS, output.CallResult, "call failed: %v", output.CallError)
}

func (h *harness) counterValue() uint64 {
	output := h.query("Counter", "count")
	h.requireSuccess(output)
	require.Len(h.t, output.OutputArguments, 1)
	return output.OutputArguments[0].(uint64)
}

func (h *harness) greeting() string {
	output := h.query("Greeting", "greet")
	h.requireSuccess(output)
	require.Len(h.t, output.OutputArguments, 1)
	return output.OutputArguments[0].(string)
}
