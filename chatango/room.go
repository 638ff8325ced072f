package chatango

import (
	"context"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsOrigin     = "http://st.chatango.com"
	pingInterval = 20 * time.Second
	dialTimeout  = 10 * time.Second
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Room is a single live room connection. All writes are serialized through
// writeMu; reads happen only on the read loop goroutine.
type Room struct {
	Name string

	conn     *websocket.Conn
	writeMu  sync.Mutex
	username string
	closed   chan struct{}
	once     sync.Once
}

func joinRoom(ctx context.Context, name, username, password string) (*Room, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	url := fmt.Sprintf("ws://%s:8080/", serverForRoom(name))
	header := http.Header{"Origin": []string{wsOrigin}}

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	r := &Room{
		Name:     name,
		conn:     conn,
		username: username,
		closed:   make(chan struct{}),
	}

	auth := strings.Join([]string{"bauth", name, sessionUID(), username, password}, fieldSep)
	if err := r.writeFrame(auth); err != nil {
		r.close()
		return nil, err
	}
	if err := r.awaitLogin(); err != nil {
		r.close()
		return nil, err
	}

	go r.pingLoop()
	return r, nil
}

// awaitLogin consumes handshake frames until the server confirms the join.
func (r *Room) awaitLogin() error {
	deadline := time.Now().Add(dialTimeout)
	if err := r.conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	defer r.conn.SetReadDeadline(time.Time{})

	for {
		frames, err := r.readFrames()
		if err != nil {
			return fmt.Errorf("login handshake: %w", err)
		}
		for _, f := range frames {
			tag, _, _ := strings.Cut(f, fieldSep)
			switch tag {
			case frameDenied:
				return fmt.Errorf("room %s denied join", r.Name)
			case frameInited:
				return nil
			}
		}
	}
}

func (r *Room) readLoop(handler Handler) error {
	for {
		frames, err := r.readFrames()
		if err != nil {
			select {
			case <-r.closed:
				return nil
			default:
				return fmt.Errorf("room %s read: %w", r.Name, err)
			}
		}
		for _, f := range frames {
			if msg := r.parseFrame(f); msg != nil {
				handler(r, msg)
			}
		}
	}
}

// readFrames reads one websocket message and splits it into NUL-terminated
// protocol frames.
func (r *Room) readFrames() ([]string, error) {
	_, data, err := r.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	raw := strings.Split(string(data), string(frameDelim))
	frames := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimRight(f, "\r\n"); f != "" {
			frames = append(frames, f)
		}
	}
	return frames, nil
}

// parseFrame extracts a chat message from a "b" frame. Field layout:
// b:time:user:tempname:puid:id:ip:flags:unused:body, where the body may itself
// contain separators.
func (r *Room) parseFrame(frame string) *Message {
	tag, rest, ok := strings.Cut(frame, fieldSep)
	if !ok || tag != frameMessage {
		return nil
	}
	fields := strings.SplitN(rest, fieldSep, 9)
	if len(fields) < 9 {
		return nil
	}
	ts, _ := strconv.ParseFloat(fields[0], 64)
	user := fields[1]
	if user == "" {
		// anonymous chatters carry only a temporary name
		user = "!anon" + fields[2]
	}
	return &Message{
		ID:       fields[4],
		RoomName: r.Name,
		User:     strings.ToLower(user),
		IP:       fields[5],
		Body:     cleanBody(fields[8]),
		Time:     time.Unix(int64(ts), 0),
	}
}

func cleanBody(raw string) string {
	text := strings.ReplaceAll(raw, "<br/>", "\n")
	text = tagPattern.ReplaceAllString(text, "")
	return html.UnescapeString(text)
}

// SendMessage posts text to the room. Non-HTML text is entity-escaped so chat
// markup cannot leak through.
func (r *Room) SendMessage(text string, isHTML bool) error {
	if !isHTML {
		text = html.EscapeString(text)
	}
	text = strings.ReplaceAll(text, "\n", "<br/>")
	return r.writeFrame(strings.Join([]string{"bm", messageTag(), "0", text}, fieldSep))
}

// Delete retracts a previously posted message by server id.
func (r *Room) Delete(msg *Message) error {
	if msg == nil || msg.ID == "" {
		return fmt.Errorf("message has no id")
	}
	return r.writeFrame("delmsg" + fieldSep + msg.ID)
}

func (r *Room) writeFrame(frame string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteMessage(websocket.TextMessage, []byte(frame+string(frameDelim)))
}

// pingLoop keeps the connection alive; the server drops idle sockets.
func (r *Room) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.closed:
			return
		case <-ticker.C:
			if err := r.writeFrame("\r\n"); err != nil {
				return
			}
		}
	}
}

func (r *Room) close() {
	r.once.Do(func() {
		close(r.closed)
		r.conn.Close()
	})
}

// serverForRoom maps a room name onto its chat server using the public
// character-weight scheme.
func serverForRoom(name string) string {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "q")
	sum := 0
	for _, ch := range name {
		sum += int(ch)
	}
	return fmt.Sprintf("s%d.chatango.com", serverIDs[sum%len(serverIDs)])
}

var serverIDs = []int{5, 6, 7, 8, 16, 17, 18, 9, 11, 12, 13, 14, 15, 19, 23, 24, 25, 26, 28, 29, 30, 31, 32, 33, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 52, 53, 55, 57, 58, 59, 60, 61, 62, 63, 64, 65, 66}

func sessionUID() string {
	return strconv.FormatInt(1e15+rand.Int63n(9e15), 10)
}

func messageTag() string {
	return "t" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
