package backend

import (
	"context"
	"log"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/utils"
)

// Backend bundles the rpc/ws plumbing the record service client needs:
// account fetch, account subscription, a cached recent blockhash, and an
// executor pool sending signed transactions.
type Backend struct {
	logger          *log.Logger
	rpcClient       *rpc.Client
	wsClients       []*ws.Client
	ctx             context.Context
	wg              sync.WaitGroup
	accountSubs     []*ws.AccountSubscription
	subscribes      map[solana.PublicKey]AccountCallback
	wallets         []*Wallet
	player          solana.PublicKey
	lock            int32
	cachedBlockHash []solana.Hash
	transaction     bool
	commandChans    []chan *Command
	clients         []*rpc.Client
}

func NewBackend(ctx context.Context, nodes []*config.Node, transaction bool, transactionNodes []*config.Node) *Backend {
	rpcClient := rpc.New(nodes[0].Rpc)
	wsClients := make([]*ws.Client, 0, len(nodes))
	for _, node := range nodes {
		wsClient, err := ws.Connect(ctx, node.Ws)
		if err != nil {
			panic(err)
		}
		wsClients = append(wsClients, wsClient)
	}
	backend := &Backend{
		rpcClient:       rpcClient,
		wsClients:       wsClients,
		ctx:             ctx,
		logger:          utils.NewLog(config.LogPath, config.BackendLog),
		accountSubs:     make([]*ws.AccountSubscription, 0),
		subscribes:      make(map[solana.PublicKey]AccountCallback),
		cachedBlockHash: make([]solana.Hash, 0, 3),
		transaction:     transaction,
	}
	commandChans := make([]chan *Command, 0, len(transactionNodes))
	clients := make([]*rpc.Client, 0, len(transactionNodes))
	for _, node := range transactionNodes {
		commandChans = append(commandChans, make(chan *Command, 1024))
		clients = append(clients, rpc.New(node.Rpc))
	}
	backend.commandChans = commandChans
	backend.clients = clients
	return backend
}

func (backend *Backend) Start() {
	if !backend.transaction {
		return
	}
	backend.startExecutor()
	backend.cachedBlockHash = append(backend.cachedBlockHash, []solana.Hash{{}, {}, {}}...)
	backend.wg.Add(1)
	go backend.CacheRecentBlockHash()
}

func (backend *Backend) Stop() {
	for _, accountSub := range backend.accountSubs {
		accountSub.Unsubscribe()
	}
	backend.wg.Wait()
}
