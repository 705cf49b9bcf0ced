// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"sort"
	"sync"
)

var LogTag = log.Service("virtual-machine")

type StateReader interface {
	ReadKey(contract types.ContractName, key string) ([]byte, bool, error)
}

type StateStorage interface {
	StateReader
	CommitDiff(diff adapter.ChainState) error
}

type Processor interface {
	MethodAccess(contractName types.ContractName, methodName types.MethodName) (types.AccessScope, error)
	ProcessCall(ctx context.Context, input *native.ProcessCallInput) (*native.ProcessCallOutput, error)
}

type metrics struct {
	transactionsRate *metric.Rate
	queriesRate      *metric.Rate
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		transactionsRate: m.NewRate("VirtualMachine.Transactions.PerSecond"),
		queriesRate:      m.NewRate("VirtualMachine.Queries.PerSecond"),
	}
}

// Service executes contract calls one at a time, each against a consistent
// state snapshot: a call's writes are buffered in a transientState and either
// committed whole or discarded. Call serialization is this runtime's
// implementation of the host-guaranteed linearizable read-modify-write.
type Service struct {
	logger       log.Logger
	stateStorage StateStorage
	processor    Processor
	contracts    map[types.ContractName]*types.ContractInfo

	callMutex sync.Mutex
	metrics   *metrics
}

func NewVirtualMachine(stateStorage StateStorage, processor Processor, contracts map[types.ContractName]*types.ContractInfo, parentLogger log.Logger, metricFactory metric.Factory) *Service {
	return &Service{
		logger:       parentLogger.WithTags(LogTag),
		stateStorage: stateStorage,
		processor:    processor,
		contracts:    contracts,
		metrics:      getMetrics(metricFactory),
	}
}

// InitContracts runs the _init hook of every deployed contract, committing any
// writes it makes. Runs once at node startup.
func (s *Service) InitContracts(ctx context.Context) error {
	names := make([]types.ContractName, 0, len(s.contracts))
	for name := range s.contracts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		output, err := s.processCall(ctx, name, "_init", nil, false, true)
		if err != nil {
			return errors.Wrapf(err, "failed to run _init of contract '%s'", name)
		}
		if output.CallResult != native.CALL_RESULT_SUCCESS {
			return errors.Wrapf(output.CallError, "_init of contract '%s' aborted", name)
		}
		s.logger.Info("initialized contract", log.String("contract", string(name)))
	}
	return nil
}

// ProcessTransaction executes an external method that may mutate state. On
// success all buffered writes commit as one diff; on abort none do.
func (s *Service) ProcessTransaction(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}) (*native.ProcessCallOutput, error) {
	s.metrics.transactionsRate.Measure(1)
	return s.processCall(ctx, contractName, methodName, args, true, true)
}

// RunQuery executes an external read-only method against committed state. A
// method registered with read-write access is rejected up front.
func (s *Service) RunQuery(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}) (*native.ProcessCallOutput, error) {
	s.metrics.queriesRate.Measure(1)
	return s.processCall(ctx, contractName, methodName, args, true, false)
}

func (s *Service) processCall(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}, externalCall bool, allowWrites bool) (*native.ProcessCallOutput, error) {
	s.callMutex.Lock()
	defer s.callMutex.Unlock()

	access, err := s.methodAccess(contractName, methodName, externalCall)
	if err != nil {
		return &native.ProcessCallOutput{CallResult: native.CALL_RESULT_ERROR_INPUT, CallError: err}, err
	}

	if !allowWrites && access != types.ACCESS_SCOPE_READ_ONLY {
		err := errors.Errorf("method '%s' of contract '%s' requires %s access and cannot run as a query", methodName, contractName, access)
		return &native.ProcessCallOutput{CallResult: native.CALL_RESULT_ERROR_INPUT, CallError: err}, err
	}

	transient := newTransientState()
	sdkContext := &stateScope{
		stateReader:  s.stateStorage,
		contractName: contractName,
		access:       access,
		transient:    transient,
	}

	output, err := s.processor.ProcessCall(ctx, &native.ProcessCallInput{
		ContractName: contractName,
		MethodName:   methodName,
		SdkContext:   sdkContext,
		Arguments:    args,
		ExternalCall: externalCall,
	})
	if err != nil {
		return output, err
	}

	if output.CallResult != native.CALL_RESULT_SUCCESS {
		s.logger.Info("contract call aborted, discarding writes",
			log.String("contract", string(contractName)),
			log.String("method", string(methodName)),
			log.Error(output.CallError))
		return output, nil
	}

	if access == types.ACCESS_SCOPE_READ_WRITE {
		if err := s.commitTransientState(transient); err != nil {
			return nil, errors.Wrapf(err, "failed to commit writes of %s.%s", contractName, methodName)
		}
	}

	return output, nil
}

func (s *Service) methodAccess(contractName types.ContractName, methodName types.MethodName, externalCall bool) (types.AccessScope, error) {
	if externalCall {
		return s.processor.MethodAccess(contractName, methodName)
	}

	// internal calls (the _init hooks) bypass the external-visibility check
	contractInfo, found := s.contracts[contractName]
	if !found {
		return types.ACCESS_SCOPE_READ_ONLY, errors.Errorf("contract '%s' not found", contractName)
	}
	methodInfo, found := contractInfo.Method(methodName)
	if !found {
		return types.ACCESS_SCOPE_READ_ONLY, errors.Errorf("method '%s' not found on contract '%s'", methodName, contractName)
	}
	return methodInfo.Access, nil
}

func (s *Service) commitTransientState(transient *transientState) error {
	diff := adapter.ChainState{}
	for contractName := range transient.contracts {
		transient.forDirty(contractName, func(key []byte, value []byte) {
			records, found := diff[contractName]
			if !found {
				records = map[string][]byte{}
				diff[contractName] = records
			}
			records[string(key)] = value
		})
	}

	if len(diff) == 0 {
		return nil
	}
	return s.stateStorage.CommitDiff(diff)
}
