// Package ledgerclient is a contract interacting with Ledger contract on its
// own behalf. It is used in tests only.
package ledgerclient

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Payment struct {
	Token  interop.Hash160
	From   interop.Hash160
	Amount int
}

const paymentKey = "payment"

// OnNEP17Payment accepts any tokens and remembers the last payment.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	storage.Put(storage.GetContext(), paymentKey, std.Serialize(Payment{
		Token:  runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
	}))
}

// LastPayment returns the last received payment.
func LastPayment() Payment {
	val := storage.Get(storage.GetReadOnlyContext(), paymentKey)
	if val == nil {
		return Payment{}
	}
	return std.Deserialize(val.([]byte)).(Payment)
}

// Deposit transfers GAS owned by this contract to the Ledger contract.
func Deposit(ledger interop.Hash160, amount int) {
	if !gas.Transfer(runtime.GetExecutingScriptHash(), ledger, amount, nil) {
		panic("deposit failed")
	}
}

// Withdraw calls Ledger contract withdrawal on behalf of this contract.
func Withdraw(ledger interop.Hash160, amount int) {
	contract.Call(ledger, "withdraw", contract.All, amount)
}
