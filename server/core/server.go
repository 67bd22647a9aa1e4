package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/dojo-tanks/shared/leveldata"
	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

// Peer is a connected client the relay can send messages to.
type Peer interface {
	SendMessage(msg any) error
}

type session struct {
	account string
	subs    map[uint64]messages.Query
}

type queuedAction struct {
	peer   Peer
	action messages.Action
}

type outgoing struct {
	peer Peer
	msg  any
}

// Server is a development relay standing in for the remote ledger. Actions
// are queued and applied when the next block closes.
type Server struct {
	name          string
	version       string
	blockInterval time.Duration

	mu       sync.Mutex
	ledger   *Ledger
	sessions map[Peer]*session
	queue    []queuedAction

	loop      *BlockLoop
	transport *transports.WsServerTransport
}

// NewServer creates a relay for one game on the given arena.
func NewServer(arena *leveldata.Arena, gameID uint32, name, version string, blockInterval time.Duration) *Server {
	s := &Server{
		name:          name,
		version:       version,
		blockInterval: blockInterval,
		ledger:        NewLedger(arena, gameID),
		sessions:      make(map[Peer]*session),
	}
	s.loop = NewBlockLoop(s, blockInterval)
	return s
}

// Run registers the router callbacks, then serves the WebSocket transport on
// port. It blocks until the transport fails.
func (s *Server) Run(port uint) error {
	s.setupRouterCallbacks()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// RunBlocks commits blocks until ctx is done.
func (s *Server) RunBlocks(ctx context.Context) error {
	return s.loop.Run(ctx)
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("Client connected: %s", client.Id())
		s.connect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("Client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("Client %s disconnected", client.Id())
		}
		s.disconnect(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.join(client, msg)
	})

	// Actions
	router.On(func(client *router.NetworkClient, a messages.Spawn) { s.enqueue(client, a) })
	router.On(func(client *router.NetworkClient, a messages.ValidatePosition) { s.enqueue(client, a) })
	router.On(func(client *router.NetworkClient, a messages.Shoot) { s.enqueue(client, a) })
	router.On(func(client *router.NetworkClient, a messages.MoveTank) { s.enqueue(client, a) })
	router.On(func(client *router.NetworkClient, a messages.RotateTank) { s.enqueue(client, a) })
	router.On(func(client *router.NetworkClient, a messages.GotHit) { s.enqueue(client, a) })

	// Queries
	router.On(func(client *router.NetworkClient, msg messages.Subscribe) { s.subscribe(client, msg) })
	router.On(func(client *router.NetworkClient, msg messages.Unsubscribe) { s.unsubscribe(client, msg) })
	router.On(func(client *router.NetworkClient, msg messages.FetchEntities) { s.fetch(client, msg) })

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("Client error: %v", err)
	})
}

func (s *Server) connect(p Peer) {
	s.mu.Lock()
	s.sessions[p] = &session{subs: make(map[uint64]messages.Query)}
	s.mu.Unlock()
}

func (s *Server) disconnect(p Peer) {
	s.mu.Lock()
	delete(s.sessions, p)
	s.mu.Unlock()
}

func (s *Server) session(p Peer) *session {
	sess, ok := s.sessions[p]
	if !ok {
		sess = &session{subs: make(map[uint64]messages.Query)}
		s.sessions[p] = sess
	}
	return sess
}

func (s *Server) join(p Peer, msg messages.JoinRequest) {
	if s.version != "" && msg.Version != s.version {
		log.Printf("[relay] rejecting %s: version %q, want %q", msg.Account, msg.Version, s.version)
		send(p, messages.JoinRejected{Reason: fmt.Sprintf("version mismatch: server %s", s.version)})
		return
	}
	if msg.Account == "" {
		send(p, messages.JoinRejected{Reason: "missing account"})
		return
	}

	s.mu.Lock()
	s.session(p).account = msg.Account
	gameID := s.ledger.GameID()
	s.mu.Unlock()

	log.Printf("[relay] %s joined game %d", msg.Account, gameID)
	send(p, messages.JoinAccepted{
		ServerName:      s.name,
		GameID:          gameID,
		BlockIntervalMs: s.blockInterval.Milliseconds(),
	})
}

func (s *Server) enqueue(p Peer, action messages.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, queuedAction{peer: p, action: action})
}

func (s *Server) subscribe(p Peer, msg messages.Subscribe) {
	s.mu.Lock()
	s.session(p).subs[msg.SubscriptionID] = msg.Query
	initial := Select(s.ledger.Records(), msg.Query)
	s.mu.Unlock()

	send(p, messages.EntityBatch{SubscriptionID: msg.SubscriptionID, Entities: initial})
}

func (s *Server) unsubscribe(p Peer, msg messages.Unsubscribe) {
	s.mu.Lock()
	if sess, ok := s.sessions[p]; ok {
		delete(sess.subs, msg.SubscriptionID)
	}
	s.mu.Unlock()
}

func (s *Server) fetch(p Peer, msg messages.FetchEntities) {
	s.mu.Lock()
	entities := Select(s.ledger.Records(), msg.Query)
	s.mu.Unlock()

	send(p, messages.EntityBatch{RequestID: msg.RequestID, Entities: entities})
}

// CommitBlock applies the queued actions in arrival order, closes a block,
// pushes the changed entities to matching subscriptions and then acknowledges
// every action.
func (s *Server) CommitBlock() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil

	results := make([]outgoing, 0, len(queue))
	for _, q := range queue {
		head := q.action.Head()
		err := s.authorize(q.peer, head)
		if err == nil {
			err = s.ledger.Apply(q.action)
		}
		res := messages.ActionResult{RequestID: head.RequestID, Accepted: err == nil}
		if err != nil {
			res.Reason = err.Error()
			log.Printf("[relay] %s from %s rejected: %v", q.action.Entrypoint(), head.Account, err)
		}
		results = append(results, outgoing{peer: q.peer, msg: res})
	}

	block, changed := s.ledger.CommitBlock()

	var out []outgoing
	if len(changed) > 0 {
		for p, sess := range s.sessions {
			for id, q := range sess.subs {
				if entities := Select(changed, q); len(entities) > 0 {
					out = append(out, outgoing{peer: p, msg: messages.EntityBatch{SubscriptionID: id, Entities: entities}})
				}
			}
		}
	}
	s.mu.Unlock()

	for i := range results {
		r := results[i].msg.(messages.ActionResult)
		r.Block = block
		results[i].msg = r
	}
	for _, o := range append(out, results...) {
		send(o.peer, o.msg)
	}
}

func (s *Server) authorize(p Peer, head messages.ActionHeader) error {
	sess, ok := s.sessions[p]
	if !ok || sess.account == "" {
		return fmt.Errorf("not joined")
	}
	if head.Account != sess.account {
		return fmt.Errorf("account %s does not match session %s", head.Account, sess.account)
	}
	return nil
}

// PlayerCount returns the number of joined clients
func (s *Server) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.account != "" {
			n++
		}
	}
	return n
}

func send(p Peer, msg any) {
	if err := p.SendMessage(msg); err != nil {
		log.Printf("[relay] send %T: %v", msg, err)
	}
}
