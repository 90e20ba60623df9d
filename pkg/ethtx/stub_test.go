package ethtx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"transfer-core/pkg/rpcclient"
)

// 各测试共用的假节点: 按 method 分发, 返回 result 或 JSON-RPC error。

type stubError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type stubHandler func(method string, params []json.RawMessage) (interface{}, *stubError)

func newStubClient(t *testing.T, handle stubHandler) *rpcclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, stubErr := handle(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if stubErr != nil {
			resp["error"] = stubErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	client, err := rpcclient.Dial(srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}
