package ws

import "sync"

// Hub 记录当前在线的连接，用于广播。
type Hub struct {
	mu    sync.RWMutex
	conns map[WSConn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[WSConn]struct{})}
}

// Add 登记连接，连接关闭后自动移除。
func (h *Hub) Add(c WSConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-c.Done()
		h.Remove(c)
	}()
}

func (h *Hub) Remove(c WSConn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast 对每个连接调用 build，返回 false 的连接跳过。
func (h *Hub) Broadcast(name string, build func(c WSConn) (any, bool)) int {
	h.mu.RLock()
	conns := make([]WSConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		data, ok := build(c)
		if !ok {
			continue
		}
		c.Push(name, data)
		sent++
	}
	return sent
}
