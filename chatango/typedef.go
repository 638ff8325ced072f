package chatango

import "time"

// Message is one chat line delivered by a room.
type Message struct {
	ID       string
	RoomName string
	User     string
	IP       string // empty when the server withholds it
	Body     string
	Time     time.Time
}

// Handler receives every message posted to a joined room. Handlers run on the
// room's read loop, so one room's messages are always processed in arrival
// order.
type Handler func(r *Room, msg *Message)

// wire protocol field separators
const (
	frameDelim = '\x00'
	fieldSep   = ":"
)

// server-to-client frame tags
const (
	frameInited  = "inited"
	frameMessage = "b"
	frameDenied  = "denied"
)
