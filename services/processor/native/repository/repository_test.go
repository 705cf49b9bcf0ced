// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package repository

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// a safety test: the virtual machine runs the _init hook of every deployed
// contract at startup, so a contract without one would fail node boot
func TestEveryContractDeclaresAnInitHook(t *testing.T) {
	for contractName, contractInfo := range Contracts {
		methodInfo, found := contractInfo.Method("_init")
		require.True(t, found, "contract %s does not declare an _init hook", contractName)
		require.False(t, methodInfo.External, "the _init hook of contract %s must not be callable externally", contractName)
	}
}

func TestContractsAreKeyedConsistently(t *testing.T) {
	for contractName, contractInfo := range Contracts {
		require.Equal(t, contractName, contractInfo.Name, "repository key and contract name disagree")
		for methodName, methodInfo := range contractInfo.Methods {
			require.Equal(t, methodName, methodInfo.Name, "method map key and method name disagree in contract %s", contractName)
			require.NotNil(t, methodInfo.Implementation, "method %s of contract %s has no implementation", methodName, contractName)
		}
	}
}
