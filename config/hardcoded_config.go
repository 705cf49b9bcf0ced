// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

type hardcodedConfig struct {
	httpAddress             string
	stateStorageFilePath    string
	metricsReportInterval   time.Duration
	systemMetricsEnabled    bool
	gracefulShutdownTimeout time.Duration
}

func NewHardCodedConfig(
	httpAddress string,
	stateStorageFilePath string,
	metricsReportInterval time.Duration,
	systemMetricsEnabled bool,
	gracefulShutdownTimeout time.Duration,
) NodeConfig {

	return &hardcodedConfig{
		httpAddress:             httpAddress,
		stateStorageFilePath:    stateStorageFilePath,
		metricsReportInterval:   metricsReportInterval,
		systemMetricsEnabled:    systemMetricsEnabled,
		gracefulShutdownTimeout: gracefulShutdownTimeout,
	}
}

func (c *hardcodedConfig) HttpAddress() string {
	return c.httpAddress
}

func (c *hardcodedConfig) StateStorageFilePath() string {
	return c.stateStorageFilePath
}

func (c *hardcodedConfig) MetricsReportInterval() time.Duration {
	return c.metricsReportInterval
}

func (c *hardcodedConfig) SystemMetricsEnabled() bool {
	return c.systemMetricsEnabled
}

func (c *hardcodedConfig) GracefulShutdownTimeout() time.Duration {
	return c.gracefulShutdownTimeout
}
