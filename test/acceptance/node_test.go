// Copyright 2024 the scalarvm-go authors
// This file is part of the scalarvm-go library in the ScalarVM project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/scalarvm/scalarvm-go/bootstrap"
	"github.com/scalarvm/scalarvm-go/config"
	"github.com/scalarvm/scalarvm-go/test/with"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startNode(t *testing.T, parent *with.LoggingHarness, stateFilePath string) *bootstrap.Node {
	cfg := config.NewHardCodedConfig("127.0.0.1:0", stateFilePath, 200*time.Millisecond, false, 50*time.Millisecond)
	node, err := bootstrap.NewNode(cfg, parent.Logger)
	require.NoError(t, err)
	return node
}

func stopNode(node *bootstrap.Node) {
	shutdownContext, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	node.GracefulShutdown(shutdownContext)
	node.WaitUntilShutdown(shutdownContext)
}

func httpCall(t *testing.T, node *bootstrap.Node, kind string, contract string, method string) (int, map[string]interface{}) {
	url := fmt.Sprintf("http://127.0.0.1:%d/api/%s/%s/%s", node.Port(), kind, contract, method)

	var res *http.Response
	var err error
	if kind == "call" {
		res, err = http.Post(url, "application/json", bytes.NewReader(nil))
	} else {
		res, err = http.Get(url)
	}
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)

	response := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &response), "could not parse response %s", string(body))
	return res.StatusCode, response
}

func TestNodeServesContractCallsOverHttp(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		node := startNode(t, parent, "")
		defer stopNode(node)

		status, response := httpCall(t, node, "call", "Counter", "inc")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "SUCCESS", response["callResult"])

		status, response = httpCall(t, node, "query", "Counter", "count")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []interface{}{float64(1)}, response["outputArguments"])
	})
}

func TestNodeStateSurvivesRestart(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		dir, err := ioutil.TempDir("", "scalarvm-acceptance")
		require.NoError(t, err)
		defer os.RemoveAll(dir)
		stateFilePath := filepath.Join(dir, "state.json")

		node := startNode(t, parent, stateFilePath)
		httpCall(t, node, "call", "Counter", "inc")
		httpCall(t, node, "call", "Counter", "inc")
		httpCall(t, node, "call", "Greeting", "constructor")
		stopNode(node)

		restarted := startNode(t, parent, stateFilePath)
		defer stopNode(restarted)

		status, response := httpCall(t, restarted, "query", "Counter", "count")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []interface{}{float64(2)}, response["outputArguments"])

		status, response = httpCall(t, restarted, "query", "Greeting", "greet")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []interface{}{"Hello World!"}, response["outputArguments"])

		status, response = httpCall(t, restarted, "call", "Greeting", "constructor")
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "already initialized", response["error"])
	})
}
