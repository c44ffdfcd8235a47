package program

import "github.com/gagliardetto/solana-go"

var (
	RecordService = solana.MustPublicKeyFromBase58("srsUi2TVUUCyGcZdopxJauk8ZBzgAaHHZCVUhm5ifPa")
	Token         = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	System        = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	SysClock      = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	SysRent       = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

// GlobalSlot tracks the latest slot observed on any account update.
var GlobalSlot uint64
