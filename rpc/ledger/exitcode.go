package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nzcom/ledger-contract/contracts/ledger/ledgerconst"
)

var (
	// ErrUnauthorized is returned for withdrawals not witnessed by the owner.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInsufficientFunds is returned for withdrawals exceeding the contract balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for withdrawals of non-positive amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

type exitCode struct {
	code int
	msg  string
	err  error
}

var exitCodes = []exitCode{
	{ledgerconst.ExitUnauthorized, ledgerconst.ErrUnauthorized, ErrUnauthorized},
	{ledgerconst.ExitInsufficientFunds, ledgerconst.ErrInsufficientFunds, ErrInsufficientFunds},
	{ledgerconst.ExitInvalidAmount, ledgerconst.ErrInvalidAmount, ErrInvalidAmount},
}

// ExitCode returns exit code of the Ledger contract failure described by the
// FAULT exception of the transaction. The second value is false if exception
// does not come from the contract checks.
func ExitCode(faultException string) (int, bool) {
	for i := range exitCodes {
		if strings.Contains(faultException, exitCodes[i].msg) {
			return exitCodes[i].code, true
		}
	}

	return 0, false
}

// CheckExitCode returns nil if the transaction execution ended in HALT state.
// Otherwise, it returns an error describing the fault. Failures of contract
// checks are reported with ErrUnauthorized, ErrInsufficientFunds and
// ErrInvalidAmount.
func CheckExitCode(res *state.AppExecResult) error {
	if res == nil {
		return errors.New("nil execution result")
	}

	if res.VMState == vmstate.Halt {
		return nil
	}

	for i := range exitCodes {
		if strings.Contains(res.FaultException, exitCodes[i].msg) {
			return fmt.Errorf("%w (exit code %d): %s", exitCodes[i].err, exitCodes[i].code, res.FaultException)
		}
	}

	return fmt.Errorf("%s: %s", res.VMState, res.FaultException)
}
