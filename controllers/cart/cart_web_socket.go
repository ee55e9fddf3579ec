// cart_web_socket.go
package cartControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sokoni-online/cart-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu        sync.Mutex
	wsCartConns = make(map[string]map[*websocket.Conn]bool) // cart key -> subscribers
)

// GET /cart/ws
//
// CartWebSocketHandler subscribes the connection to its cart's transitions;
// every completed transition pushes the full new state.
func CartWebSocketHandler(c *gin.Context) {
	key, ok := cartKey(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	if wsCartConns[key] == nil {
		wsCartConns[key] = make(map[*websocket.Conn]bool)
	}
	wsCartConns[key][conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsCartConns[key], conn)
			if len(wsCartConns[key]) == 0 {
				delete(wsCartConns, key)
			}
			wsMu.Unlock()
			break
		}
	}
}

func broadcastCartState(key string, state models.CartState) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	wsMu.Lock()
	defer wsMu.Unlock()
	for conn := range wsCartConns[key] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
