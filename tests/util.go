package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// transferGAS transfers amount of GAS from the signer to the given account
// and checks the transfer succeeded.
func transferGAS(t *testing.T, e *neotest.Executor, from neotest.Signer, to util.Uint160, amount int64) util.Uint256 {
	gasInvoker := e.NewInvoker(e.NativeHash(t, nativenames.Gas), from)
	return gasInvoker.Invoke(t, true, "transfer", from.ScriptHash(), to, amount, nil)
}

// gasBalance returns GAS balance of the account.
func gasBalance(e *neotest.Executor, acc util.Uint160) int64 {
	return e.Chain.GetUtilityTokenBalance(acc).Int64()
}

// appExecResult returns the result of the persisted transaction execution.
func appExecResult(t *testing.T, e *neotest.Executor, h util.Uint256) state.AppExecResult {
	aer, err := e.Chain.GetAppExecResults(h, trigger.Application)
	require.NoError(t, err)
	require.Len(t, aer, 1)
	return aer[0]
}

// applicationLog returns application log of the persisted transaction as it
// is returned by the RPC server.
func applicationLog(t *testing.T, e *neotest.Executor, h util.Uint256) *result.ApplicationLog {
	aer := appExecResult(t, e, h)
	return &result.ApplicationLog{
		Container:     h,
		IsTransaction: true,
		Executions:    []state.Execution{aer.Execution},
	}
}

// eventsByName returns all notifications with the given name emitted by the
// contract in the transaction.
func eventsByName(t *testing.T, e *neotest.Executor, h util.Uint256, contract util.Uint160, name string) []state.NotificationEvent {
	var res []state.NotificationEvent
	for _, ev := range appExecResult(t, e, h).Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			res = append(res, ev)
		}
	}
	return res
}
