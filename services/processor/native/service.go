// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"context"
	"fmt"
	"github.com/orbs-network/scribe/log"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"time"
)

var LogTag = log.Service("processor-native")

type CallResult uint16

const (
	CALL_RESULT_SUCCESS CallResult = iota
	CALL_RESULT_ERROR_CONTRACT
	CALL_RESULT_ERROR_INPUT
)

func (r CallResult) String() string {
	switch r {
	case CALL_RESULT_SUCCESS:
		return "SUCCESS"
	case CALL_RESULT_ERROR_CONTRACT:
		return "ERROR_CONTRACT"
	case CALL_RESULT_ERROR_INPUT:
		return "ERROR_INPUT"
	}
	return "UNKNOWN"
}

type ProcessCallInput struct {
	ContractName types.ContractName
	MethodName   types.MethodName

	// the storage capability for this call, scoped by the virtual machine to
	// the contract's key space and the method's declared access
	SdkContext types.Context

	Arguments    []interface{}
	ExternalCall bool
}

type ProcessCallOutput struct {
	OutputArguments []interface{}
	CallResult      CallResult

	// the error the contract signalled, nil on success; carried separately
	// from the system error so callers can surface it to the transaction
	// submitter verbatim
	CallError error
}

type service struct {
	logger    log.Logger
	contracts map[types.ContractName]*types.ContractInfo
	metrics   *metrics
}

type metrics struct {
	processCallTime *metric.Histogram
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		processCallTime: m.NewLatency("Processor.Native.ProcessCallTime.Millis", 10*time.Second),
	}
}

func NewNativeProcessor(contracts map[types.ContractName]*types.ContractInfo, parentLogger log.Logger, metricFactory metric.Factory) *service {
	return &service{
		logger:    parentLogger.WithTags(LogTag),
		contracts: contracts,
		metrics:   getMetrics(metricFactory),
	}
}

// MethodAccess returns the storage access scope a method declared, so the
// caller can scope the Context capability before dispatching. Only external
// methods are visible here.
func (s *service) MethodAccess(contractName types.ContractName, methodName types.MethodName) (types.AccessScope, error) {
	_, methodInfo, err := s.retrieveContractAndMethod(contractName, methodName, true)
	if err != nil {
		return types.ACCESS_SCOPE_READ_ONLY, err
	}
	return methodInfo.Access, nil
}

func (s *service) ProcessCall(ctx context.Context, input *ProcessCallInput) (*ProcessCallOutput, error) {
	_, methodInfo, err := s.retrieveContractAndMethod(input.ContractName, input.MethodName, input.ExternalCall)
	if err != nil {
		return &ProcessCallOutput{CallResult: CALL_RESULT_ERROR_INPUT, CallError: err}, err
	}

	start := time.Now()
	defer s.metrics.processCallTime.RecordSince(start)

	s.logger.Info("processor executing contract method",
		log.String("contract", string(input.ContractName)),
		log.String("method", string(input.MethodName)))

	functionNameForErrors := fmt.Sprintf("%s.%s", input.ContractName, input.MethodName)
	outputArgs, contractErr, err := s.processMethodCall(methodInfo.Implementation, input.SdkContext, input.Arguments, functionNameForErrors)
	if err != nil {
		return &ProcessCallOutput{CallResult: CALL_RESULT_ERROR_INPUT, CallError: err}, err
	}

	callResult := CALL_RESULT_SUCCESS
	if contractErr != nil {
		callResult = CALL_RESULT_ERROR_CONTRACT
	}
	return &ProcessCallOutput{
		OutputArguments: outputArgs,
		CallResult:      callResult,
		CallError:       contractErr,
	}, nil
}
