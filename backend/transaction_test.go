package backend

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationResult(t *testing.T) {
	// no logs: the transaction never reached execution
	_, _, err := simulationResult(&rpc.SimulateTransactionResponse{})
	require.Error(t, err)

	// executed and failed: error with the logs attached
	_, logsJson, err := simulationResult(&rpc.SimulateTransactionResponse{
		Err:  map[string]interface{}{"InstructionError": []interface{}{0, "InvalidAccountData"}},
		Logs: []string{"Program srsUi2TVUUCyGcZdopxJauk8ZBzgAaHHZCVUhm5ifPa invoke [1]"},
	})
	require.Error(t, err)
	assert.Contains(t, string(logsJson), "invoke")

	// success: post-state accounts come back
	accounts, logsJson, err := simulationResult(&rpc.SimulateTransactionResponse{
		Logs:     []string{"Program srsUi2TVUUCyGcZdopxJauk8ZBzgAaHHZCVUhm5ifPa success"},
		Accounts: []*rpc.Account{{Lamports: 1}},
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Contains(t, string(logsJson), "success")
}
