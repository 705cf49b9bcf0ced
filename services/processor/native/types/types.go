// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

type ContractName string
type MethodName string

// AccessScope declares the storage capability a method requires. Methods
// registered ACCESS_SCOPE_READ_ONLY are handed a Context whose writes abort
// the call, so a read accessor cannot mutate state even by mistake.
type AccessScope uint16

const (
	ACCESS_SCOPE_READ_ONLY AccessScope = iota
	ACCESS_SCOPE_READ_WRITE
)

func (s AccessScope) String() string {
	switch s {
	case ACCESS_SCOPE_READ_ONLY:
		return "READ_ONLY"
	case ACCESS_SCOPE_READ_WRITE:
		return "READ_WRITE"
	}
	return "UNKNOWN"
}

// MethodInstance is the function value implementing a contract method. Its
// first argument is always the Context capability; remaining arguments and
// return values are restricted to uint32, uint64, string, []byte and a
// trailing error.
type MethodInstance interface{}

type MethodInfo struct {
	Name           MethodName
	External       bool
	Access         AccessScope
	Implementation MethodInstance
}

type ContractInfo struct {
	Name    ContractName
	Methods map[MethodName]MethodInfo
}

func (c *ContractInfo) Method(name MethodName) (MethodInfo, bool) {
	method, found := c.Methods[name]
	return method, found
}
