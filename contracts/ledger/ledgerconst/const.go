package ledgerconst

// Exit codes of failed Ledger contract invocations. Each code is the prefix
// of the corresponding fault message, so it can be recovered from the FAULT
// exception of the transaction.
const (
	// ExitInsufficientFunds is reported when the requested withdrawal exceeds
	// the contract balance.
	ExitInsufficientFunds = 104
	// ExitUnauthorized is reported when the withdrawal is not witnessed by
	// the contract owner.
	ExitUnauthorized = 132
	// ExitInvalidAmount is reported when the requested withdrawal is not
	// positive.
	ExitInvalidAmount = 134
)

const (
	// ErrInsufficientFunds is a fault message of ExitInsufficientFunds.
	ErrInsufficientFunds = "104: insufficient funds"
	// ErrUnauthorized is a fault message of ExitUnauthorized.
	ErrUnauthorized = "132: access denied: owner witness check failed"
	// ErrInvalidAmount is a fault message of ExitInvalidAmount.
	ErrInvalidAmount = "134: invalid amount"

	// ErrGASOnly is thrown when some token other than GAS is sent to the
	// contract.
	ErrGASOnly = "ledger contract accepts GAS only"
	// ErrInvalidDeployData is thrown when deployment data is not an array
	// holding a single integer identifier.
	ErrInvalidDeployData = "invalid deployment data"
	// ErrTransferFailed is thrown when the GAS contract refuses the
	// withdrawal transfer.
	ErrTransferFailed = "GAS transfer failed"
)

// Names of the contract notifications.
const (
	DepositEvent    = "Deposit"
	WithdrawalEvent = "Withdrawal"
)

// StateKey is a storage key of the serialized contract state.
const StateKey = "s"
