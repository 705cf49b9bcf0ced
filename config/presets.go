// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

func ForProduction(httpAddress string, stateStorageFilePath string) NodeConfig {
	return NewHardCodedConfig(
		httpAddress,
		stateStorageFilePath,
		30*time.Second,
		true,
		100*time.Millisecond,
	)
}

// ForAcceptanceTests keeps state in memory and reports metrics often enough
// for tests to observe them
func ForAcceptanceTests() NodeConfig {
	return NewHardCodedConfig(
		"127.0.0.1:0",
		"",
		200*time.Millisecond,
		false,
		50*time.Millisecond,
	)
}
