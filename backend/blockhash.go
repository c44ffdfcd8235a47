package backend

import (
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// CacheRecentBlockHash keeps a ring of the last three observed blockhashes
// so Commit never has to wait on an rpc round trip.
func (backend *Backend) CacheRecentBlockHash() {
	defer backend.wg.Done()
	ticker := time.NewTicker(time.Second * 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			getRecentBlockHashResult, err := backend.rpcClient.GetRecentBlockhash(backend.ctx, rpc.CommitmentFinalized)
			if err != nil {
				backend.logger.Printf("GetRecentBlockhash, err: %s", err.Error())
				continue
			}
			if backend.cachedBlockHash[2] == getRecentBlockHashResult.Value.Blockhash {
				continue
			}
			backend.logger.Printf("get recent block hash. (%s, %d)",
				getRecentBlockHashResult.Value.Blockhash.String(), getRecentBlockHashResult.Context.Slot)
			for !atomic.CompareAndSwapInt32(&backend.lock, 0, 1) {
			}
			backend.cachedBlockHash = append(backend.cachedBlockHash, getRecentBlockHashResult.Value.Blockhash)
			backend.cachedBlockHash = backend.cachedBlockHash[1:]
			atomic.StoreInt32(&backend.lock, 0)
		case <-backend.ctx.Done():
			return
		}
	}
}

// GetRecentBlockHash returns a cached blockhash; level 0 is the oldest of
// the ring, higher levels are fresher.
func (backend *Backend) GetRecentBlockHash(level int) solana.Hash {
	for !atomic.CompareAndSwapInt32(&backend.lock, 0, 1) {
	}
	defer atomic.StoreInt32(&backend.lock, 0)
	if level < 0 || level >= len(backend.cachedBlockHash) {
		level = len(backend.cachedBlockHash) - 1
	}
	return backend.cachedBlockHash[level]
}
