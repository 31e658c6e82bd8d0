package main

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nzcom/ledger-contract/contracts/ledger/ledgerconst"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func faultResult(exception string) *state.AppExecResult {
	return &state.AppExecResult{Execution: state.Execution{
		VMState:        vmstate.Fault,
		FaultException: exception,
	}}
}

func TestResultError(t *testing.T) {
	require.NoError(t, resultError("withdraw", &state.AppExecResult{
		Execution: state.Execution{VMState: vmstate.Halt},
	}))

	for _, tc := range []struct {
		name      string
		exception string
		code      int
	}{
		{
			name:      "unauthorized",
			exception: `at instruction 94 (THROW): unhandled exception: "` + ledgerconst.ErrUnauthorized + `"`,
			code:      ledgerconst.ExitUnauthorized,
		},
		{
			name:      "insufficient funds",
			exception: `at instruction 120 (THROW): unhandled exception: "` + ledgerconst.ErrInsufficientFunds + `"`,
			code:      ledgerconst.ExitInsufficientFunds,
		},
		{
			name:      "invalid amount",
			exception: `at instruction 131 (THROW): unhandled exception: "` + ledgerconst.ErrInvalidAmount + `"`,
			code:      ledgerconst.ExitInvalidAmount,
		},
		{
			name:      "other fault",
			exception: "gas limit exceeded",
			code:      1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := resultError("withdraw", faultResult(tc.exception))
			require.Error(t, err)

			var coder cli.ExitCoder
			require.True(t, errors.As(err, &coder))
			require.Equal(t, tc.code, coder.ExitCode())
			require.Contains(t, coder.Error(), "withdraw")
			require.Contains(t, coder.Error(), tc.exception)
		})
	}

	err := resultError("withdraw", nil)
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder))
	require.Equal(t, 1, coder.ExitCode())
}
