// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"github.com/orbs-network/scribe/log"
	"net/http"
	"time"
)

type statusResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime,omitempty"`
}

func (s *HttpServer) getStatus(w http.ResponseWriter, r *http.Request) {
	response := &statusResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
	}
	if uptime := s.metricRegistry.Get("Runtime.Uptime.Seconds"); uptime != nil {
		response.Uptime = uptime.String() + "s"
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if _, err := w.Write(data); err != nil {
		s.logger.Info("error writing status response", log.Error(err))
	}
}
