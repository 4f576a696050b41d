package network

import (
	"net"
	"sync"

	"github.com/btcsuite/websocket"
	"github.com/dripnet/internal/dripnet/events"
)

type WebSocketResponse struct {
	Event string
	Data  interface{}
}

var (
	connectionsMu   sync.Mutex
	connectionsPool = make(map[net.Addr]*websocket.Conn)
)

func AddWsClientConnection(wsConnection *websocket.Conn) {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	connectionsPool[wsConnection.RemoteAddr()] = wsConnection
}

func RemoveWsClientConnection(wsConnection *websocket.Conn) {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	delete(connectionsPool, wsConnection.RemoteAddr())
	_ = wsConnection.Close()
}

func PublishData(dataType string, data interface{}) {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	var wsResp = WebSocketResponse{
		dataType, data,
	}
	for addr, w := range connectionsPool {
		if err := w.WriteJSON(wsResp); err != nil {
			delete(connectionsPool, addr)
			_ = w.Close()
		}
	}
}

// ForwardEvents pumps faucet events into the websocket pool until the bus
// channel closes or ctx is done by the caller dropping the subscription.
func ForwardEvents(ch <-chan events.Event) {
	for ev := range ch {
		PublishData(ev.Type, ev.Data)
	}
}
