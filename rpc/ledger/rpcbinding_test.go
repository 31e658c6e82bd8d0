package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nzcom/ledger-contract/contracts/ledger/ledgerconst"
	"github.com/stretchr/testify/require"
)

type call struct {
	contract util.Uint160
	method   string
	params   []any
}

type testAct struct {
	sender util.Uint160
	res    *result.Invoke
	err    error
	tx     *transaction.Transaction
	txh    util.Uint256
	vub    uint32
	calls  []call
}

func (t *testAct) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.calls = append(t.calls, call{contract, operation, params})
	return t.res, t.err
}
func (t *testAct) Sender() util.Uint160 {
	return t.sender
}
func (t *testAct) MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error) {
	t.calls = append(t.calls, call{contract, method, params})
	return t.tx, t.err
}
func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error) {
	t.calls = append(t.calls, call{contract, method, params})
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	t.calls = append(t.calls, call{contract, method, params})
	return t.txh, t.vub, t.err
}
func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	return t.txh, t.vub, t.err
}

func haltWith(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: items,
	}
}

func TestReader(t *testing.T) {
	ta := new(testAct)
	hash := util.Uint160{1, 2, 3}
	r := NewReader(ta, hash)

	t.Run("errors", func(t *testing.T) {
		ta.err = errors.New("bad")
		_, err := r.GetID()
		require.Error(t, err)
		_, err = r.GetOwner()
		require.Error(t, err)
		_, err = r.GetBalance()
		require.Error(t, err)
		_, err = r.Version()
		require.Error(t, err)

		ta.err = nil
		ta.res = &result.Invoke{
			State:          vmstate.Fault.String(),
			FaultException: "something bad",
		}
		_, err = r.GetBalance()
		require.Error(t, err)

		ta.res = haltWith()
		_, err = r.GetBalance()
		require.Error(t, err)
	})

	t.Run("GetID", func(t *testing.T) {
		ta.res = haltWith(stackitem.Make(42))
		id, err := r.GetID()
		require.NoError(t, err)
		require.EqualValues(t, 42, id.Int64())
		require.Equal(t, "getID", ta.calls[len(ta.calls)-1].method)
		require.Equal(t, hash, ta.calls[len(ta.calls)-1].contract)
	})

	t.Run("GetBalance", func(t *testing.T) {
		ta.res = haltWith(stackitem.Make(2_0000_0000))
		b, err := r.GetBalance()
		require.NoError(t, err)
		require.EqualValues(t, 2_0000_0000, b.Int64())
		require.Equal(t, "getBalance", ta.calls[len(ta.calls)-1].method)
	})

	t.Run("GetOwner", func(t *testing.T) {
		owner := util.Uint160{0xde, 0xad, 0xbe, 0xef}
		ta.res = haltWith(stackitem.NewByteArray(owner.BytesBE()))

		res, err := r.GetOwner()
		require.NoError(t, err)
		require.Equal(t, owner, res)

		addr, err := r.GetOwnerAddress()
		require.NoError(t, err)
		require.Equal(t, address.Uint160ToString(owner), addr)

		// version byte, script hash and 4-byte checksum
		raw, err := base58.Decode(addr)
		require.NoError(t, err)
		require.Len(t, raw, 1+util.Uint160Size+4)
		require.Equal(t, address.NEO3Prefix, raw[0])
		require.Equal(t, owner.BytesBE(), raw[1:1+util.Uint160Size])

		ta.res = haltWith(stackitem.NewByteArray([]byte{1, 2, 3}))
		_, err = r.GetOwner()
		require.Error(t, err)
		_, err = r.GetOwnerAddress()
		require.Error(t, err)
	})
}

func TestContract(t *testing.T) {
	ta := &testAct{
		sender: util.Uint160{9, 9, 9},
		tx:     new(transaction.Transaction),
		txh:    util.Uint256{1, 2, 3},
		vub:    42,
	}
	hash := util.Uint160{1, 2, 3}
	c := New(ta, hash)
	amount := big.NewInt(1_0000_0000)

	t.Run("Withdraw", func(t *testing.T) {
		h, vub, err := c.Withdraw(amount)
		require.NoError(t, err)
		require.Equal(t, ta.txh, h)
		require.Equal(t, ta.vub, vub)
		require.Equal(t, call{hash, "withdraw", []any{amount}}, ta.calls[len(ta.calls)-1])

		tx, err := c.WithdrawTransaction(amount)
		require.NoError(t, err)
		require.Equal(t, ta.tx, tx)

		tx, err = c.WithdrawUnsigned(amount)
		require.NoError(t, err)
		require.Equal(t, ta.tx, tx)
		require.Equal(t, "withdraw", ta.calls[len(ta.calls)-1].method)
	})

	t.Run("Deposit", func(t *testing.T) {
		expected := call{gas.Hash, "transfer", []any{ta.sender, hash, amount, nil}}

		_, _, err := c.Deposit(amount)
		require.NoError(t, err)
		require.Equal(t, expected, ta.calls[len(ta.calls)-1])

		_, err = c.DepositTransaction(amount)
		require.NoError(t, err)
		require.Equal(t, expected, ta.calls[len(ta.calls)-1])

		_, err = c.DepositUnsigned(amount)
		require.NoError(t, err)
		require.Equal(t, expected, ta.calls[len(ta.calls)-1])
	})

	t.Run("error", func(t *testing.T) {
		ta.err = errors.New("bad")
		_, _, err := c.Withdraw(amount)
		require.ErrorIs(t, err, ta.err)
		_, _, err = c.Deposit(amount)
		require.ErrorIs(t, err, ta.err)
	})
}

func TestEventsFromApplicationLog(t *testing.T) {
	var (
		from   = util.Uint160{1}
		to     = util.Uint160{2}
		amount = int64(5_0000_0000)
	)

	_, err := DepositEventsFromApplicationLog(nil)
	require.Error(t, err)
	_, err = WithdrawalEventsFromApplicationLog(nil)
	require.Error(t, err)

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			VMState: vmstate.Halt,
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{stackitem.Null{}}),
				},
				{
					Name: ledgerconst.DepositEvent,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
						stackitem.Make(amount),
					}),
				},
				{
					Name: ledgerconst.WithdrawalEvent,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(to.BytesBE()),
						stackitem.Make(amount),
					}),
				},
			},
		}},
	}

	deposits, err := DepositEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*DepositEvent{{From: from, Amount: big.NewInt(amount)}}, deposits)

	withdrawals, err := WithdrawalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*WithdrawalEvent{{To: to, Amount: big.NewInt(amount)}}, withdrawals)

	t.Run("malformed", func(t *testing.T) {
		log.Executions[0].Events[1].Item = stackitem.NewArray([]stackitem.Item{stackitem.Make(amount)})
		_, err := DepositEventsFromApplicationLog(log)
		require.Error(t, err)

		log.Executions[0].Events[2].Item = stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray([]byte{1}),
			stackitem.Make(amount),
		})
		_, err = WithdrawalEventsFromApplicationLog(log)
		require.Error(t, err)
	})
}

func TestExitCode(t *testing.T) {
	for _, tc := range []struct {
		exception string
		code      int
		err       error
	}{
		{
			exception: `at instruction 94 (THROW): unhandled exception: "` + ledgerconst.ErrUnauthorized + `"`,
			code:      ledgerconst.ExitUnauthorized,
			err:       ErrUnauthorized,
		},
		{
			exception: `at instruction 120 (THROW): unhandled exception: "` + ledgerconst.ErrInsufficientFunds + `"`,
			code:      ledgerconst.ExitInsufficientFunds,
			err:       ErrInsufficientFunds,
		},
		{
			exception: `unhandled exception: "` + ledgerconst.ErrInvalidAmount + `"`,
			code:      ledgerconst.ExitInvalidAmount,
			err:       ErrInvalidAmount,
		},
	} {
		code, ok := ExitCode(tc.exception)
		require.True(t, ok)
		require.Equal(t, tc.code, code)

		res := &state.AppExecResult{Execution: state.Execution{
			VMState:        vmstate.Fault,
			FaultException: tc.exception,
		}}
		require.ErrorIs(t, CheckExitCode(res), tc.err)
	}

	_, ok := ExitCode("gas limit exceeded")
	require.False(t, ok)

	err := CheckExitCode(&state.AppExecResult{Execution: state.Execution{
		VMState:        vmstate.Fault,
		FaultException: "gas limit exceeded",
	}})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, CheckExitCode(&state.AppExecResult{Execution: state.Execution{VMState: vmstate.Halt}}))
	require.Error(t, CheckExitCode(nil))
}
