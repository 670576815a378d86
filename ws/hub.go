package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // theo từng analysisID
	UserClients   map[string]map[*websocket.Conn]*Client // theo từng profileID (badge thông báo)
	GlobalClients map[*websocket.Conn]*Client            // dành cho broadcast chung (bảng danh sách)
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	UserClients:   make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// StageUpdate gửi khi một phân tích đổi stage/status
type StageUpdate struct {
	AnalysisID      string `json:"analysis_id"`
	Status          string `json:"status"`
	ProductionStage string `json:"production_stage,omitempty"`
	ChangedBy       string `json:"changed_by,omitempty"`
}

// Register theo analysisID riêng
func (h *Hub) Register(analysisID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[analysisID]; !ok {
		h.Clients[analysisID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[analysisID][conn] = client

	go writePump(conn, client)
}

// RegisterUser cho kênh badge thông báo của từng user
func (h *Hub) RegisterUser(profileID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.UserClients[profileID]; !ok {
		h.UserClients[profileID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.UserClients[profileID][conn] = client

	go writePump(conn, client)
}

// RegisterGlobal cho trang danh sách
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go writePump(conn, client)
}

// Broadcast theo analysisID
func (h *Hub) Broadcast(analysisID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[analysisID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// BroadcastUser gửi cho mọi kết nối của một user
func (h *Hub) BroadcastUser(profileID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.UserClients[profileID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// BroadcastGlobal gửi cho toàn bộ client trang danh sách
func (h *Hub) BroadcastGlobal(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// SendStageUpdate thông báo một phân tích vừa đổi trạng thái/stage
func SendStageUpdate(analysisID, status, stage, changedBy string) {
	update := StageUpdate{
		AnalysisID:      analysisID,
		Status:          status,
		ProductionStage: stage,
		ChangedBy:       changedBy,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(analysisID, data)
	H.BroadcastGlobal(data)
}

// SendBadgeUpdate cập nhật số thông báo chưa đọc của một user
func SendBadgeUpdate(profileID string, unreadCount int64) {
	data, err := json.Marshal(map[string]any{
		"type":         "badge_update",
		"unread_count": unreadCount,
	})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastUser(profileID, data)
}

// BroadcastAnalysisListChanged gửi signal cập nhật bảng danh sách
func BroadcastAnalysisListChanged() {
	H.BroadcastGlobal([]byte(`{"type": "analysis_list_changed"}`))
}

// Unregister client theo analysisID
func (h *Hub) Unregister(analysisID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[analysisID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, analysisID)
		}
	}
}

// UnregisterUser gỡ một kết nối badge
func (h *Hub) UnregisterUser(profileID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.UserClients[profileID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.UserClients, profileID)
		}
	}
}

// UnregisterGlobal gỡ một client trang danh sách
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// GetStats: số kết nối đang mở theo từng kênh, cho health check
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	analysisConns := 0
	for _, clients := range h.Clients {
		analysisConns += len(clients)
	}
	userConns := 0
	for _, clients := range h.UserClients {
		userConns += len(clients)
	}
	return map[string]int{
		"analysis_connections": analysisConns,
		"user_connections":     userConns,
		"global_connections":   len(h.GlobalClients),
	}
}

// writePump đẩy message từ channel ra kết nối, handler giữ vòng đọc riêng
func writePump(conn *websocket.Conn, client *Client) {
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	conn.WriteMessage(websocket.CloseMessage, []byte{})
}
