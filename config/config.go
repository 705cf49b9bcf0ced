// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

type NodeConfig interface {
	// http gateway
	HttpAddress() string

	// state storage; empty path means state lives in memory only
	StateStorageFilePath() string

	// instrumentation
	MetricsReportInterval() time.Duration
	SystemMetricsEnabled() bool

	// shutdown
	GracefulShutdownTimeout() time.Duration
}

type HttpServerConfig interface {
	HttpAddress() string
}
