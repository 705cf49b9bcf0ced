// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"reflect"
)

func (s *service) retrieveContractAndMethod(contractName types.ContractName, methodName types.MethodName, externalCall bool) (*types.ContractInfo, *types.MethodInfo, error) {
	contractInfo, found := s.contracts[contractName]
	if !found {
		return nil, nil, errors.Errorf("contract '%s' not found", contractName)
	}

	methodInfo, found := contractInfo.Method(methodName)
	if !found {
		return nil, nil, errors.Errorf("method '%s' not found on contract '%s'", methodName, contractName)
	}

	if externalCall && !methodInfo.External {
		return nil, nil, errors.Errorf("method '%s' on contract '%s' is not callable externally", methodName, contractName)
	}

	return contractInfo, &methodInfo, nil
}

func (s *service) processMethodCall(methodInstance types.MethodInstance, sdkContext types.Context, args []interface{}, functionNameForErrors string) (outputArgs []interface{}, contractErr error, err error) {

	// a panicking contract (or capability) aborts the call rather than crash the node
	defer func() {
		if r := recover(); r != nil {
			outputArgs = nil
			contractErr = errors.Errorf("%s", r)
		}
	}()

	inValues, err := s.prepareMethodInputArgsForCall(methodInstance, sdkContext, args, functionNameForErrors)
	if err != nil {
		return nil, nil, err
	}

	outValues := reflect.ValueOf(methodInstance).Call(inValues)

	outputArgs, contractErr, err = s.createMethodOutputArgs(outValues, functionNameForErrors)
	if err != nil {
		return nil, nil, err
	}

	return outputArgs, contractErr, err
}

func (s *service) prepareMethodInputArgsForCall(methodInstance types.MethodInstance, sdkContext types.Context, args []interface{}, functionNameForErrors string) ([]reflect.Value, error) {
	res := []reflect.Value{}
	methodType := reflect.ValueOf(methodInstance).Type()

	if methodType.NumIn() == 0 {
		return nil, errors.Errorf("method '%s' does not take the sdk context as its first arg", functionNameForErrors)
	}
	res = append(res, reflect.ValueOf(sdkContext))

	numMethodArgs := methodType.NumIn() - 1
	if len(args) != numMethodArgs {
		return nil, errors.Errorf("method '%s' takes %d args but received %d", functionNameForErrors, numMethodArgs, len(args))
	}

	for i := 0; i < numMethodArgs; i++ {
		arg := args[i]
		switch methodType.In(i + 1).Kind() {
		case reflect.Uint32:
			value, ok := arg.(uint32)
			if !ok {
				return nil, errors.Errorf("method '%s' expects arg %d to be uint32 but it has %T", functionNameForErrors, i, arg)
			}
			res = append(res, reflect.ValueOf(value))
		case reflect.Uint64:
			value, ok := arg.(uint64)
			if !ok {
				return nil, errors.Errorf("method '%s' expects arg %d to be uint64 but it has %T", functionNameForErrors, i, arg)
			}
			res = append(res, reflect.ValueOf(value))
		case reflect.String:
			value, ok := arg.(string)
			if !ok {
				return nil, errors.Errorf("method '%s' expects arg %d to be string but it has %T", functionNameForErrors, i, arg)
			}
			res = append(res, reflect.ValueOf(value))
		case reflect.Slice:
			if methodType.In(i+1).Elem().Kind() != reflect.Uint8 {
				return nil, errors.Errorf("method '%s' arg %d slice type is not byte", functionNameForErrors, i)
			}
			value, ok := arg.([]byte)
			if !ok {
				return nil, errors.Errorf("method '%s' expects arg %d to be bytes but it has %T", functionNameForErrors, i, arg)
			}
			res = append(res, reflect.ValueOf(value))
		default:
			return nil, errors.Errorf("method '%s' arg %d is of unsupported type", functionNameForErrors, i)
		}
	}

	return res, nil
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

func (s *service) createMethodOutputArgs(outValues []reflect.Value, functionNameForErrors string) (outputArgs []interface{}, contractErr error, err error) {
	outputArgs = []interface{}{}

	for i, outValue := range outValues {
		// a trailing error return is the contract-level error, not an output arg
		if i == len(outValues)-1 && outValue.Type().Implements(errorInterface) {
			if !outValue.IsNil() {
				contractErr = outValue.Interface().(error)
			}
			continue
		}

		switch outValue.Kind() {
		case reflect.Uint32:
			outputArgs = append(outputArgs, outValue.Interface().(uint32))
		case reflect.Uint64:
			outputArgs = append(outputArgs, outValue.Interface().(uint64))
		case reflect.String:
			outputArgs = append(outputArgs, outValue.Interface().(string))
		case reflect.Slice:
			if outValue.Type().Elem().Kind() != reflect.Uint8 {
				return nil, nil, errors.Errorf("method '%s' output arg %d slice type is not byte", functionNameForErrors, i)
			}
			outputArgs = append(outputArgs, outValue.Interface().([]byte))
		default:
			return nil, nil, errors.Errorf("method '%s' output arg %d is of unsupported type", functionNameForErrors, i)
		}
	}

	return outputArgs, contractErr, nil
}
