package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Billing event names pushed to connected front-desk clients.
const (
	EventBillCreated      = "bill.created"
	EventChargeAppended   = "charge.appended"
	EventPaymentProcessed = "payment.processed"
	EventBillSettled      = "bill.settled"
)

var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Client represents one websocket connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub keeps the set of connected clients and fans billing events out to
// all of them.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// BroadcastEvent serializes a billing event envelope and hands it to the
// broadcast loop. Events are best-effort notifications; a marshal failure is
// logged and dropped.
func (h *Hub) BroadcastEvent(event string, data interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal ws event")
		return
	}
	h.Broadcast <- msg
}
