package ledger

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nzcom/ledger-contract/common"
	"github.com/nzcom/ledger-contract/contracts/ledger/ledgerconst"
)

// State is the persisted state of the Ledger contract.
type State struct {
	// Identifier given at deployment.
	ID int
	// Account that deployed the contract, the only one allowed to withdraw.
	Owner interop.Hash160
	// Amount of GAS fractions held for the owner.
	Balance int
}

// Stack item types as encoded by std.Serialize in the first byte.
const (
	integerType = 0x21
	arrayType   = 0x40
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	if data == nil || std.Serialize(data)[0] != arrayType {
		panic(ledgerconst.ErrInvalidDeployData)
	}

	args := data.([]any)
	if len(args) != 1 || std.Serialize(args[0])[0] != integerType {
		panic(ledgerconst.ErrInvalidDeployData)
	}

	tx := runtime.GetScriptContainer()

	ctx := storage.GetContext()
	putState(ctx, State{
		ID:      args[0].(int),
		Owner:   tx.Sender,
		Balance: 0,
	})

	runtime.Log("ledger contract initialized")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Any account can deposit GAS, the amount is added to the contract balance.
//
// Produces Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(ledgerconst.ErrGASOnly)
	}

	ctx := storage.GetContext()
	st := getState(ctx)
	st.Balance = st.Balance + amount
	putState(ctx, st)

	runtime.Notify(ledgerconst.DepositEvent, from, amount)
}

// Withdraw transfers amount of GAS from the contract to the owner. It can be
// invoked only by the owner and only within the current balance. The owner
// check always comes first, so a call that is both unauthorized and
// insufficient fails as unauthorized.
//
// Produces Withdrawal notification.
func Withdraw(amount int) {
	ctx := storage.GetContext()
	st := getState(ctx)

	if !runtime.CheckWitness(st.Owner) {
		panic(ledgerconst.ErrUnauthorized)
	}

	if amount > st.Balance {
		panic(ledgerconst.ErrInsufficientFunds)
	}

	if amount <= 0 {
		panic(ledgerconst.ErrInvalidAmount)
	}

	st.Balance = st.Balance - amount
	putState(ctx, st)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), st.Owner, amount, nil) {
		panic(ledgerconst.ErrTransferFailed)
	}

	runtime.Notify(ledgerconst.WithdrawalEvent, st.Owner, amount)
}

// GetID returns identifier the contract was deployed with.
func GetID() int {
	return getState(storage.GetReadOnlyContext()).ID
}

// GetOwner returns the account allowed to withdraw funds.
func GetOwner() interop.Hash160 {
	return getState(storage.GetReadOnlyContext()).Owner
}

// GetBalance returns the amount of GAS fractions held by the contract.
func GetBalance() int {
	return getState(storage.GetReadOnlyContext()).Balance
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getState(ctx storage.Context) State {
	st := common.GetSerialized(ctx, ledgerconst.StateKey)
	if st == nil {
		return State{}
	}

	return st.(State)
}

func putState(ctx storage.Context, st State) {
	common.SetSerialized(ctx, ledgerconst.StateKey, st)
}
