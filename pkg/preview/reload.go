package preview

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/hashicorp/go-hclog"
)

// This reloader is a refactor of the chat server example from
// https://github.com/coder/websocket/blob/master/internal/examples/chat/chat.go

// reloader fans a reload notice out to every connected page.  Slow
// subscribers are disconnected rather than allowed to stall the
// watcher.
type reloader struct {
	l hclog.Logger

	maxUndelivered int

	subscribersMutex sync.Mutex
	subscribers      map[*subscriber]struct{}
}

// subscriber represents one connected page.  Notices are sent on the
// msgs channel and closeSlow is called if the client cannot keep up.
type subscriber struct {
	msgs      chan []byte
	closeSlow func()
}

func newReloader(l hclog.Logger) *reloader {
	return &reloader{
		l:              l,
		maxUndelivered: 8,
		subscribers:    make(map[*subscriber]struct{}),
	}
}

// handler upgrades the request and holds the socket open until the
// page goes away.
func (rl *reloader) handler(w http.ResponseWriter, r *http.Request) {
	err := rl.subscribe(w, r)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		rl.l.Warn("Error handling reload subscription", "error", err)
	}
}

func (rl *reloader) subscribe(w http.ResponseWriter, r *http.Request) error {
	var mu sync.Mutex
	var c *websocket.Conn
	var closed bool
	s := &subscriber{
		msgs: make(chan []byte, rl.maxUndelivered),
		closeSlow: func() {
			mu.Lock()
			defer mu.Unlock()
			closed = true
			if c != nil {
				c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up")
			}
		},
	}
	rl.addSubscriber(s)
	defer rl.deleteSubscriber(s)

	c2, err := websocket.Accept(w, r, nil)
	if err != nil {
		return err
	}
	mu.Lock()
	if closed {
		mu.Unlock()
		return net.ErrClosed
	}
	c = c2
	mu.Unlock()
	defer c.CloseNow()

	ctx := c.CloseRead(r.Context())

	for {
		select {
		case msg := <-s.msgs:
			if err := writeTimeout(ctx, time.Second*5, c, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// publish notifies all subscribers.  It never blocks; notices to slow
// subscribers are dropped and the subscriber evicted.
func (rl *reloader) publish(msg []byte) {
	rl.subscribersMutex.Lock()
	defer rl.subscribersMutex.Unlock()

	for s := range rl.subscribers {
		select {
		case s.msgs <- msg:
		default:
			go s.closeSlow()
		}
	}
}

func (rl *reloader) addSubscriber(s *subscriber) {
	rl.subscribersMutex.Lock()
	rl.subscribers[s] = struct{}{}
	rl.subscribersMutex.Unlock()
}

func (rl *reloader) deleteSubscriber(s *subscriber) {
	rl.subscribersMutex.Lock()
	delete(rl.subscribers, s)
	rl.subscribersMutex.Unlock()
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Write(ctx, websocket.MessageText, msg)
}
