package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	}
	return "unknown"
}

type submitOutcome struct {
	result messages.ActionResult
	err    error
}

type fetchOutcome struct {
	batch messages.EntityBatch
	err   error
}

// Client manages a WebSocket connection to the ledger relay. It implements
// Submitter and Subscriber.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state         ClientState
	lastError     error
	account       string
	serverName    string
	gameID        uint32
	blockInterval time.Duration
	conn          *websocket.Conn

	nextID  uint64
	pending map[uint64]chan submitOutcome
	fetches map[uint64]chan fetchOutcome
	subs    map[uint64]BatchHandler
}

func NewClient(account string) *Client {
	return &Client{
		state:   StateDisconnected,
		account: account,
		pending: make(map[uint64]chan submitOutcome),
		fetches: make(map[uint64]chan fetchOutcome),
		subs:    make(map[uint64]BatchHandler),
	}
}

// Connect dials the relay in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	account := c.account
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to relay")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{Version: version, Account: account}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: server=%s game=%d block=%dms",
			msg.ServerName, msg.GameID, msg.BlockIntervalMs)
		c.mu.Lock()
		c.serverName = msg.ServerName
		c.gameID = msg.GameID
		c.blockInterval = time.Duration(msg.BlockIntervalMs) * time.Millisecond
		c.state = StateJoined
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, res messages.ActionResult) {
		c.mu.Lock()
		ch, ok := c.pending[res.RequestID]
		delete(c.pending, res.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- submitOutcome{result: res}
		}
	})

	router.On(func(_ *router.NetworkClient, batch messages.EntityBatch) {
		c.routeBatch(batch)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
		c.failPending(ErrNotConnected)
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
			c.failPending(ErrNotConnected)
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.subs = make(map[uint64]BatchHandler)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
	c.failPending(ErrNotConnected)

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) Account() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

// GameID is the game the relay assigned at join.
func (c *Client) GameID() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

func (c *Client) BlockInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blockInterval
}

// Submit stamps the action with a request id and the local account, sends it
// and waits for its block to be final. A declined action returns an error
// wrapping ErrActionRejected.
func (c *Client) Submit(ctx context.Context, action messages.Action) error {
	ch := make(chan submitOutcome, 1)

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	account := c.account
	c.mu.Unlock()

	if err := c.SendMessage(action.WithHeader(messages.ActionHeader{RequestID: id, Account: account})); err != nil {
		c.dropPending(id)
		return fmt.Errorf("send %s: %w", action.Entrypoint(), err)
	}

	select {
	case out := <-ch:
		if out.err != nil {
			return fmt.Errorf("%s: %w", action.Entrypoint(), out.err)
		}
		if !out.result.Accepted {
			return fmt.Errorf("%s: %w: %s", action.Entrypoint(), ErrActionRejected, out.result.Reason)
		}
		return nil
	case <-ctx.Done():
		c.dropPending(id)
		return fmt.Errorf("%s: %w", action.Entrypoint(), ctx.Err())
	}
}

// Subscribe opens a live query. fn runs on a transport goroutine for the
// initial batch and for every later change.
func (c *Client) Subscribe(ctx context.Context, q messages.Query, fn BatchHandler) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.nextID++
	id := c.nextID
	c.subs[id] = fn
	c.mu.Unlock()

	if err := c.SendMessage(messages.Subscribe{SubscriptionID: id, Query: q}); err != nil {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("subscribe %s: %w", q.Model, err)
	}

	return NewSubscription(q, func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		if err := c.SendMessage(messages.Unsubscribe{SubscriptionID: id}); err != nil && !errors.Is(err, ErrNotConnected) {
			log.Printf("[client] unsubscribe %d: %v", id, err)
		}
	}), nil
}

// Fetch runs a one-shot query.
func (c *Client) Fetch(ctx context.Context, q messages.Query) ([]messages.EntityUpdate, error) {
	ch := make(chan fetchOutcome, 1)

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.nextID++
	id := c.nextID
	c.fetches[id] = ch
	c.mu.Unlock()

	if err := c.SendMessage(messages.FetchEntities{RequestID: id, Query: q}); err != nil {
		c.dropFetch(id)
		return nil, fmt.Errorf("fetch %s: %w", q.Model, err)
	}

	select {
	case out := <-ch:
		if out.err != nil {
			return nil, fmt.Errorf("fetch %s: %w", q.Model, out.err)
		}
		if out.batch.Error != "" {
			return nil, fmt.Errorf("fetch %s: %s", q.Model, out.batch.Error)
		}
		return out.batch.Entities, nil
	case <-ctx.Done():
		c.dropFetch(id)
		return nil, fmt.Errorf("fetch %s: %w", q.Model, ctx.Err())
	}
}

func (c *Client) routeBatch(batch messages.EntityBatch) {
	var batchErr error
	if batch.Error != "" {
		batchErr = errors.New(batch.Error)
	}

	c.mu.Lock()
	fn := c.subs[batch.SubscriptionID]
	fetch, isFetch := c.fetches[batch.RequestID]
	if isFetch {
		delete(c.fetches, batch.RequestID)
	}
	c.mu.Unlock()

	switch {
	case batch.SubscriptionID != 0 && fn != nil:
		fn(batch.Entities, batchErr)
	case batch.RequestID != 0 && isFetch:
		fetch <- fetchOutcome{batch: batch}
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func (c *Client) dropPending(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) dropFetch(id uint64) {
	c.mu.Lock()
	delete(c.fetches, id)
	c.mu.Unlock()
}

// failPending wakes every waiter with err.
func (c *Client) failPending(err error) {
	c.mu.Lock()
	pending := c.pending
	fetches := c.fetches
	c.pending = make(map[uint64]chan submitOutcome)
	c.fetches = make(map[uint64]chan fetchOutcome)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- submitOutcome{err: err}
	}
	for _, ch := range fetches {
		ch <- fetchOutcome{err: err}
	}
}

// DrainChan returns every value buffered in ch without blocking.
func DrainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
