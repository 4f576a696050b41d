package network

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/btcsuite/websocket"
	"github.com/dripnet/internal/dripnet/types"
)

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Access-Control-Max-Age", "1800")
	w.Header().Set("Access-Control-Allow-Headers", "content-type")
	w.Header().Set("Access-Control-Allow-Methods", "PUT, POST, GET, DELETE, PATCH, OPTIONS")
}

// HandleRequest serves the single json-rpc endpoint.
func HandleRequest(ctx context.Context, rpc *RPC) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsHeaders(w)
			w.WriteHeader(http.StatusOK)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}

		var request types.Request
		err = json.Unmarshal(body, &request)
		if err != nil {
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		netlogger().Debugw("Request", "method", request.Method)

		result, rpcErr := rpc.Execute(request.Method, request.Params)

		response := types.Response{
			JSONRPC: "2.0",
			Result:  result,
			ID:      request.ID,
			Error:   rpcErr,
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to serialize response", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		corsHeaders(w)

		if _, err = w.Write(responseData); err != nil {
			netlogger().Errorw("Failed to write response", "err", err)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocketRequest upgrades the connection and registers it with the
// event publisher. The read loop only answers pings; all data flows out.
func HandleWebSocketRequest(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			netlogger().Errorw("Failed to upgrade WebSocket connection", "err", err)
			return
		}

		AddWsClientConnection(conn)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				RemoveWsClientConnection(conn)
				return
			}

			if string(message) == "ping" {
				if err := conn.WriteJSON("pong"); err != nil {
					RemoveWsClientConnection(conn)
					return
				}
			}
		}
	}
}
