// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/scalarvm/scalarvm-go/config"
	"github.com/scalarvm/scalarvm-go/instrumentation/logfields"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"net"
	"net/http"
	"time"
)

var LogTag = log.String("adapter", "http-server")

// VirtualMachine is the call surface the gateway exposes over HTTP.
type VirtualMachine interface {
	ProcessTransaction(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}) (*native.ProcessCallOutput, error)
	RunQuery(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}) (*native.ProcessCallOutput, error)
}

type metrics struct {
	requestTime *metric.Histogram
}

type HttpServer struct {
	govnr.TreeSupervisor

	httpServer     *http.Server
	logger         log.Logger
	virtualMachine VirtualMachine
	metricRegistry metric.Registry
	metrics        *metrics

	port int
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err := tc.SetKeepAlive(true); err != nil {
		return nil, err
	}
	if err := tc.SetKeepAlivePeriod(35 * time.Second); err != nil {
		return nil, err
	}
	return tc, nil
}

func NewHttpServer(cfg config.HttpServerConfig, parentLogger log.Logger, virtualMachine VirtualMachine, metricRegistry metric.Registry) (*HttpServer, error) {
	logger := parentLogger.WithTags(LogTag)

	listener, err := net.Listen("tcp", cfg.HttpAddress())
	if err != nil {
		return nil, err
	}

	s := &HttpServer{
		logger:         logger,
		virtualMachine: virtualMachine,
		metricRegistry: metricRegistry,
		metrics: &metrics{
			requestTime: metricRegistry.NewLatency("HttpServer.RequestProcessingTime.Millis", 10*time.Second),
		},
		port: listener.Addr().(*net.TCPAddr).Port,
	}
	s.httpServer = &http.Server{
		Handler: s.createRouter(),
	}

	// we prefer not to use ListenAndServe because we want to block until the socket is listening or exit immediately
	govnr.Once(logfields.GovnrErrorer(logger), func() {
		err := s.httpServer.Serve(tcpKeepAliveListener{listener.(*net.TCPListener)})
		if err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped serving", log.Error(err))
		}
	})

	logger.Info("started http server", log.String("address", cfg.HttpAddress()), log.Int("port", s.port))

	return s, nil
}

func (s *HttpServer) Port() int {
	return s.port
}

func (s *HttpServer) GracefulShutdown(shutdownContext context.Context) {
	if err := s.httpServer.Shutdown(shutdownContext); err != nil {
		s.logger.Error("failed to stop http server gracefully", log.Error(err))
	}
}

func (s *HttpServer) createRouter() *http.ServeMux {
	router := http.NewServeMux()
	router.HandleFunc("/robots.txt", s.robots)
	router.HandleFunc("/status", s.getStatus)
	router.HandleFunc("/metrics", s.dumpMetrics)
	router.HandleFunc("/api/call/", s.callHandler)
	router.HandleFunc("/api/query/", s.queryHandler)
	return router
}
