// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/scalarvm/scalarvm-go/config"
	"github.com/scalarvm/scalarvm-go/instrumentation/metric"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/repository"
	"github.com/scalarvm/scalarvm-go/services/statestorage"
	"github.com/scalarvm/scalarvm-go/services/statestorage/adapter"
	"github.com/scalarvm/scalarvm-go/services/virtualmachine"
	"github.com/scalarvm/scalarvm-go/test/with"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"net/http"
	"testing"
	"time"
)

type serverHarness struct {
	server  *HttpServer
	baseUrl string
}

func newServerHarness(t *testing.T, parent *with.LoggingHarness) *serverHarness {
	registry := metric.NewRegistry()
	persistence := adapter.NewInMemoryStatePersistence(registry)
	stateStorage := statestorage.NewStateStorage(persistence, parent.Logger, registry)
	processor := native.NewNativeProcessor(repository.Contracts, parent.Logger, registry)
	vm := virtualmachine.NewVirtualMachine(stateStorage, processor, repository.Contracts, parent.Logger, registry)

	server, err := NewHttpServer(config.ForAcceptanceTests(), parent.Logger, vm, registry)
	require.NoError(t, err)

	return &serverHarness{
		server:  server,
		baseUrl: fmt.Sprintf("http://127.0.0.1:%d", server.Port()),
	}
}

func (h *serverHarness) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	h.server.GracefulShutdown(ctx)
}

func (h *serverHarness) post(t *testing.T, path string) (int, *callResponse) {
	res, err := http.Post(h.baseUrl+path, "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	return readCallResponse(t, res)
}

func (h *serverHarness) get(t *testing.T, path string) (int, *callResponse) {
	res, err := http.Get(h.baseUrl + path)
	require.NoError(t, err)
	return readCallResponse(t, res)
}

func readCallResponse(t *testing.T, res *http.Response) (int, *callResponse) {
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)

	response := &callResponse{}
	if res.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(body, response), "could not parse response %s", string(body))
	} else {
		response.Error = string(body)
	}
	return res.StatusCode, response
}

func TestCallEndpointExecutesTransaction(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		status, response := h.post(t, "/api/call/Counter/inc")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "SUCCESS", response.CallResult)

		status, response = h.get(t, "/api/query/Counter/count")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "SUCCESS", response.CallResult)
		require.Equal(t, []interface{}{float64(1)}, response.OutputArguments)
	})
}

func TestContractErrorMapsToConflict(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		status, response := h.post(t, "/api/call/Counter/dec")
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "ERROR_CONTRACT", response.CallResult)
		require.Equal(t, "counter underflow: cannot decrement below zero", response.Error)
	})
}

func TestInputErrorMapsToBadRequest(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		status, response := h.post(t, "/api/call/Counter/noSuchMethod")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "ERROR_INPUT", response.CallResult)
		require.Contains(t, response.Error, "method 'noSuchMethod' not found")
	})
}

func TestUnknownPathMapsToNotFound(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		status, _ := h.post(t, "/api/call/Counter")
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestQueryRejectsMutatingMethod(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		status, response := h.get(t, "/api/query/Counter/inc")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "ERROR_INPUT", response.CallResult)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		res, err := http.Get(h.baseUrl + "/metrics")
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := ioutil.ReadAll(res.Body)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Contains(t, string(body), "HttpServer.RequestProcessingTime.Millis")
	})
}

func TestStatusEndpoint(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		h := newServerHarness(t, parent)
		defer h.shutdown()

		res, err := http.Get(h.baseUrl + "/status")
		require.NoError(t, err)
		defer res.Body.Close()

		require.Equal(t, http.StatusOK, res.StatusCode)
	})
}
