package backend

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/utils"
)

const (
	ExecutorSize = 4
	Try          = 30
)

type Callback interface {
	OnCommandExecuted(accounts []*rpc.Account) error
}

type Command struct {
	Id       uint64
	Trx      *solana.Transaction
	Simulate bool
	Accounts []solana.PublicKey
	Callback Callback
}

func (backend *Backend) Executor(id int, commandChan chan *Command, client *rpc.Client) {
	logger := utils.NewLog(config.LogPath, fmt.Sprintf("%s_%d", config.ExecutorLog, id))
	defer func() {
		backend.logger.Printf("executor %d exit", id)
	}()
	logger.Printf("executor %d start", id)
	for {
		select {
		case command := <-commandChan:
			backend.Execute(command, client, id, logger)
		case <-backend.ctx.Done():
			return
		}
	}
}

func (backend *Backend) Execute(command *Command, client *rpc.Client, id int, logger *log.Logger) {
	defer func() {
		logger.Printf("end execute command: %d", command.Id)
	}()
	logger.Printf("start execute command: %d", command.Id)
	trx := command.Trx
	if command.Simulate {
		response, err := client.SimulateTransactionWithOpts(backend.ctx, trx, &rpc.SimulateTransactionOpts{
			SigVerify:              false,
			Commitment:             rpc.CommitmentFinalized,
			ReplaceRecentBlockhash: true,
			Accounts: &rpc.SimulateTransactionAccountsOpts{
				Encoding:  solana.EncodingBase64,
				Addresses: command.Accounts,
			},
		})
		if err != nil {
			logger.Printf("SimulateTransactionWithOpts err: %s", err.Error())
			return
		}
		accounts, logsJson, err := simulationResult(response)
		if err != nil {
			logger.Printf("simulate err: %s\n%s", err.Error(), logsJson)
			return
		}
		if command.Callback != nil {
			command.Callback.OnCommandExecuted(accounts)
		}
		return
	}
	signature, err := client.SendTransactionWithOpts(backend.ctx, trx, true, rpc.CommitmentFinalized)
	if err != nil {
		logger.Printf("SendTransactionWithOpts err: %s", err.Error())
		return
	}
	logger.Printf("sent transaction: %s", signature.String())
	counter := 0
	for counter < Try {
		counter++
		err = backend.checkTransaction(client, signature)
		if err == nil {
			logger.Printf("transaction success: %s", signature.String())
			return
		}
		time.Sleep(time.Millisecond * 500)
	}
	trxJson, _ := json.MarshalIndent(trx, "", "    ")
	logger.Printf("transaction unconfirmed after %d tries: %s", Try, trxJson)
}

func (backend *Backend) checkTransaction(client *rpc.Client, signature solana.Signature) error {
	if signature.IsZero() {
		return fmt.Errorf("no transaction hash")
	}
	_, err := client.GetTransaction(backend.ctx, signature, &rpc.GetTransactionOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	return err
}

func (backend *Backend) startExecutor() {
	for i := 0; i < len(backend.commandChans); i++ {
		for j := 0; j < ExecutorSize; j++ {
			id := (i+1)*1000 + (j + 1)
			go backend.Executor(id, backend.commandChans[i], backend.clients[i])
		}
	}
}

// Commit builds, signs and fans a transaction out to every transaction
// node's executor pool.
func (backend *Backend) Commit(level int, id uint64, ins []solana.Instruction, simulate bool, accounts []solana.PublicKey, callback Callback) {
	builder := solana.NewTransactionBuilder()
	for _, i := range ins {
		builder.AddInstruction(i)
	}
	builder.SetRecentBlockHash(backend.GetRecentBlockHash(level))
	builder.SetFeePayer(backend.player)
	trx, err := builder.Build()
	if err != nil {
		backend.logger.Printf("build err: %s", err.Error())
		return
	}
	trx.Sign(backend.getWallet)
	command := &Command{
		Id:       id,
		Trx:      trx,
		Simulate: simulate,
		Accounts: accounts,
		Callback: callback,
	}
	for i := 0; i < len(backend.commandChans); i++ {
		backend.commandChans[i] <- command
	}
}

// Send builds, signs and sends a single transaction synchronously, waiting
// for confirmation. Used by the command line tools.
func (backend *Backend) Send(ins []solana.Instruction) (solana.Signature, error) {
	getRecentBlockHashResult, err := backend.rpcClient.GetRecentBlockhash(backend.ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}
	builder := solana.NewTransactionBuilder()
	for _, i := range ins {
		builder.AddInstruction(i)
	}
	builder.SetRecentBlockHash(getRecentBlockHashResult.Value.Blockhash)
	builder.SetFeePayer(backend.player)
	trx, err := builder.Build()
	if err != nil {
		return solana.Signature{}, err
	}
	trx.Sign(backend.getWallet)
	signature, err := backend.rpcClient.SendTransactionWithOpts(backend.ctx, trx, false, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}
	counter := 0
	for counter < Try {
		counter++
		if err = backend.checkTransaction(backend.rpcClient, signature); err == nil {
			return signature, nil
		}
		time.Sleep(time.Millisecond * 500)
	}
	return signature, fmt.Errorf("transaction %s unconfirmed: %s", signature.String(), err.Error())
}
