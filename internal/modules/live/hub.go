package live

import (
	"sync"

	"scheduleandpay/internal/domain"
)

const (
	EventSlotBooked   = "slot_booked"
	EventHoursUpdated = "hours_updated"

	clientBuffer = 16
)

// Event is pushed to every open schedule page.
type Event struct {
	Type string `json:"type"`
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// Hub fans availability changes out to subscribers. A subscriber whose
// buffer is full is dropped rather than slowing down the publisher.
type Hub struct {
	mutex   sync.RWMutex
	clients map[int64]chan Event
	nextID  int64
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]chan Event),
	}
}

func (h *Hub) Subscribe() (int64, <-chan Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	ch := make(chan Event, clientBuffer)
	// После Close новые подписчики сразу получают закрытый канал
	if h.closed {
		close(ch)
		return 0, ch
	}
	h.nextID++
	h.clients[h.nextID] = ch
	return h.nextID, ch
}

func (h *Hub) Unsubscribe(id int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Broadcast returns the number of subscribers that received the event.
func (h *Hub) Broadcast(e Event) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	delivered := 0
	for id, ch := range h.clients {
		select {
		case ch <- e:
			delivered++
		default:
			// Медленный клиент: отключаем, страница переподключится сама
			close(ch)
			delete(h.clients, id)
		}
	}
	return delivered
}

func (h *Hub) SlotBooked(key domain.BookingKey) {
	h.Broadcast(Event{Type: EventSlotBooked, Date: key.Day.Key(), Time: string(key.Time)})
}

func (h *Hub) HoursUpdated(_ []domain.TimeLabel) {
	h.Broadcast(Event{Type: EventHoursUpdated})
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// Close disconnects every subscriber; later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.closed = true
}
