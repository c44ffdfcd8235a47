package backend

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Simulate executes the instructions against the current bank state without
// landing them, returning the post-state of the requested accounts.
func (backend *Backend) Simulate(is []solana.Instruction, pubkeys []solana.PublicKey) ([]*rpc.Account, []byte, error) {
	getRecentBlockHashResult, err := backend.rpcClient.GetRecentBlockhash(backend.ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, nil, err
	}
	builder := solana.NewTransactionBuilder()
	for _, i := range is {
		builder.AddInstruction(i)
	}
	builder.SetRecentBlockHash(getRecentBlockHashResult.Value.Blockhash)
	builder.SetFeePayer(backend.player)
	trx, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}
	trx.Sign(backend.getWallet)

	response, err := backend.rpcClient.SimulateTransactionWithOpts(backend.ctx, trx, &rpc.SimulateTransactionOpts{
		SigVerify:  false,
		Commitment: rpc.CommitmentFinalized,
		Accounts: &rpc.SimulateTransactionAccountsOpts{
			Encoding:  solana.EncodingBase64,
			Addresses: pubkeys,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return simulationResult(response)
}

// simulationResult interprets a simulation response: nil logs mean the
// transaction never executed, a set Err means it executed and failed.
func simulationResult(response *rpc.SimulateTransactionResponse) ([]*rpc.Account, []byte, error) {
	if response.Logs == nil {
		return nil, nil, fmt.Errorf("log is nil, simulate failed before the transaction was able to executed")
	}
	logsJson, _ := json.MarshalIndent(response.Logs, "", "    ")
	if response.Err != nil {
		return nil, logsJson, fmt.Errorf("%v", response.Err)
	}
	return response.Accounts, logsJson, nil
}
