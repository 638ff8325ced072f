// Package chatango implements the minimal slice of the Chatango room protocol
// the bot needs: authenticate, join rooms, receive messages, post and delete.
// Reconnect/backoff is deliberately out of scope; a dropped room connection
// ends Run with an error and the process supervisor restarts the bot.
package chatango

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Client owns one connection per joined room and fans every received message
// into the registered handler.
type Client struct {
	username string
	password string

	mu      sync.Mutex
	rooms   map[string]*Room
	handler Handler
}

func NewClient(username, password string) *Client {
	return &Client{
		username: username,
		password: password,
		rooms:    make(map[string]*Room),
	}
}

// OnMessage registers the message callback. Must be called before Run.
func (c *Client) OnMessage(h Handler) {
	c.handler = h
}

// Room returns a joined room by name, or nil.
func (c *Client) Room(name string) *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[name]
}

// Run joins every room and blocks until the context is cancelled or any room
// connection fails.
func (c *Client) Run(ctx context.Context, roomNames []string) error {
	if c.handler == nil {
		return fmt.Errorf("no message handler registered")
	}

	errCh := make(chan error, len(roomNames))
	for _, name := range roomNames {
		room, err := joinRoom(ctx, name, c.username, c.password)
		if err != nil {
			c.closeAll()
			return fmt.Errorf("join room %q: %w", name, err)
		}
		c.mu.Lock()
		c.rooms[name] = room
		c.mu.Unlock()
		log.Printf("joined room %s as %s", name, c.username)

		go func(r *Room) {
			errCh <- r.readLoop(c.handler)
		}(room)
	}

	select {
	case <-ctx.Done():
		c.closeAll()
		return ctx.Err()
	case err := <-errCh:
		c.closeAll()
		return err
	}
}

func (c *Client) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rooms {
		r.close()
	}
}
