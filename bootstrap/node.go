// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/scalarvm/scalarvm-go/bootstrap/httpserver"
	"github.com/scalarvm/scalarvm-go/config"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository"
	"github.com/scalarvm/scalarvm-go/services/statestorage"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"github.com/scalarvm/scalarvm-go/services/virtualmachine"
	"sync"
)

// Node assembles the full runtime: persistence, state storage, the native
// processor with the deployed contract repository, the virtual machine and the
// http gateway, all supervised under one shutdown tree.
type Node struct {
	govnr.TreeSupervisor

	logger         log.Logger
	httpServer     *httpserver.HttpServer
	cancelFunc     context.CancelFunc
	shutdownCond   *sync.Cond
	shutdownCalled bool
}

func NewNode(cfg config.NodeConfig, parentLogger log.Logger) (*Node, error) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := parentLogger.WithTags(log.Node("scalarvm"))

	metricRegistry := metric.NewRegistry()

	persistence, err := newStatePersistence(cfg, logger, metricRegistry)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to open state persistence")
	}

	stateStorage := statestorage.NewStateStorage(persistence, logger, metricRegistry)
	processor := native.NewNativeProcessor(repository.Contracts, logger, metricRegistry)
	virtualMachine := virtualmachine.NewVirtualMachine(stateStorage, processor, repository.Contracts, logger, metricRegistry)

	if err := virtualMachine.InitContracts(ctx); err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to initialize contracts")
	}

	httpServer, err := httpserver.NewHttpServer(cfg, logger, virtualMachine, metricRegistry)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to start http server")
	}

	node := &Node{
		logger:       logger,
		httpServer:   httpServer,
		cancelFunc:   cancel,
		shutdownCond: sync.NewCond(&sync.Mutex{}),
	}

	node.Supervise(httpServer)
	node.Supervise(metricRegistry.ReportEvery(ctx, cfg.MetricsReportInterval(), logger))
	node.Supervise(metric.NewRuntimeReporter(ctx, metricRegistry, logger))
	if cfg.SystemMetricsEnabled() {
		node.Supervise(metric.NewSystemReporter(ctx, metricRegistry, logger))
	}

	return node, nil
}

func newStatePersistence(cfg config.NodeConfig, logger log.Logger, metricRegistry metric.Registry) (adapter.StatePersistence, error) {
	if filePath := cfg.StateStorageFilePath(); filePath != "" {
		return adapter.NewFileStatePersistence(filePath, logger, metricRegistry)
	}
	return adapter.NewInMemoryStatePersistence(metricRegistry), nil
}

func (n *Node) Port() int {
	return n.httpServer.Port()
}

func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down")
	n.cancelFunc()
	n.httpServer.GracefulShutdown(shutdownContext)

	n.shutdownCond.L.Lock()
	n.shutdownCalled = true
	n.shutdownCond.Broadcast()
	n.shutdownCond.L.Unlock()
}

// WaitUntilShutdown blocks until GracefulShutdown is called and then waits for
// every supervised goroutine to drain, bounded by shutdownContext.
func (n *Node) WaitUntilShutdown(shutdownContext context.Context) {
	n.shutdownCond.L.Lock()
	for !n.shutdownCalled {
		n.shutdownCond.Wait()
	}
	n.shutdownCond.L.Unlock()

	n.TreeSupervisor.WaitUntilShutdown(shutdownContext)
}
