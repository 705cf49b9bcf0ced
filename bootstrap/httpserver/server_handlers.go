// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"encoding/json"
	"github.com/orbs-network/scribe/log"
	"github.com/scalarvm/scalarvm-go/services/processor/native"
	"github.com/scalarvm/scalarvm-go/services/processor/native/types"
	"io/ioutil"
	"net/http"
	"strings"
	"time"
)

type callRequest struct {
	Arguments []interface{} `json:"arguments"`
}

type callResponse struct {
	CallResult      string        `json:"callResult"`
	OutputArguments []interface{} `json:"outputArguments"`
	Error           string        `json:"error,omitempty"`
}

func (s *HttpServer) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, err := w.Write([]byte("User-agent: *\nDisallow: /\n"))
	if err != nil {
		s.logger.Info("error writing robots.txt response", log.Error(err))
	}
}

func (s *HttpServer) dumpMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, err := w.Write([]byte(s.metricRegistry.String()))
	if err != nil {
		s.logger.Info("error writing metrics response", log.Error(err))
	}
}

func (s *HttpServer) callHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	s.handleContractCall(w, r, "/api/call/", s.virtualMachine.ProcessTransaction)
}

func (s *HttpServer) queryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "GET or POST required")
		return
	}
	s.handleContractCall(w, r, "/api/query/", s.virtualMachine.RunQuery)
}

type contractCallFunc func(ctx context.Context, contractName types.ContractName, methodName types.MethodName, args []interface{}) (*native.ProcessCallOutput, error)

func (s *HttpServer) handleContractCall(w http.ResponseWriter, r *http.Request, prefix string, call contractCallFunc) {
	start := time.Now()
	defer s.metrics.requestTime.RecordSince(start)

	contractName, methodName, ok := parseCallPath(r.URL.Path, prefix)
	if !ok {
		s.writeErrorResponse(w, http.StatusNotFound, "expected path "+prefix+"{contract}/{method}")
		return
	}

	args, err := readCallArguments(r)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	output, err := call(r.Context(), types.ContractName(contractName), types.MethodName(methodName), args)
	if err != nil && output == nil {
		// a system error, not a rejection the caller can act on
		s.logger.Error("contract call failed in gateway", log.Error(err), log.String("contract", contractName), log.String("method", methodName))
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		s.logger.Info("contract call rejected", log.Error(err), log.String("contract", contractName), log.String("method", methodName))
	}

	s.writeCallResponse(w, output)
}

func parseCallPath(path string, prefix string) (contractName string, methodName string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func readCallArguments(r *http.Request) ([]interface{}, error) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var req callRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, len(req.Arguments))
	for _, arg := range req.Arguments {
		switch typed := arg.(type) {
		case float64:
			// json numbers arrive as float64, contract methods take unsigned integers
			args = append(args, uint64(typed))
		default:
			args = append(args, arg)
		}
	}
	return args, nil
}

func (s *HttpServer) writeCallResponse(w http.ResponseWriter, output *native.ProcessCallOutput) {
	response := &callResponse{
		CallResult:      output.CallResult.String(),
		OutputArguments: make([]interface{}, 0, len(output.OutputArguments)),
	}
	for _, arg := range output.OutputArguments {
		response.OutputArguments = append(response.OutputArguments, arg)
	}
	if output.CallError != nil {
		response.Error = output.CallError.Error()
	}

	httpStatus := http.StatusOK
	switch output.CallResult {
	case native.CALL_RESULT_ERROR_INPUT:
		httpStatus = http.StatusBadRequest
	case native.CALL_RESULT_ERROR_CONTRACT:
		httpStatus = http.StatusConflict
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(httpStatus)
	if _, err := w.Write(data); err != nil {
		s.logger.Info("error writing call response", log.Error(err))
	}
}

func (s *HttpServer) writeErrorResponse(w http.ResponseWriter, httpStatus int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(httpStatus)
	if _, err := w.Write([]byte(message)); err != nil {
		s.logger.Info("error writing error response", log.Error(err))
	}
}
