// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/orbs-network/scribe/log"
	"github.com/scalarvm/scalarvm-go/bootstrap"
	"github.com/scalarvm/scalarvm-go/config"
	"github.com/scalarvm/scalarvm-go/synchronization/supervised"
	"os"
)

func main() {
	httpAddress := flag.String("listen", ":8080", "ip address and port for the http gateway")
	stateFilePath := flag.String("state", "", "path of the state snapshot file, empty runs in memory only")
	silent := flag.Bool("silent", false, "disable output to stdout")
	flag.Parse()

	logger := log.GetLogger().WithOutput(log.NewFormattingOutput(os.Stdout, log.NewHumanReadableFormatter()))
	if *silent {
		logger = log.GetLogger().WithOutput()
	}

	cfg := config.ForProduction(*httpAddress, *stateFilePath)
	if err := config.NewValidator().Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", err)
		os.Exit(1)
	}

	node, err := bootstrap.NewNode(cfg, logger)
	if err != nil {
		logger.Error("failed to start node", log.Error(err))
		os.Exit(1)
	}

	supervised.NewShutdownListener(logger, node).ListenToOSShutdownSignal(cfg.GracefulShutdownTimeout())
	node.WaitUntilShutdown(context.Background())
}
