/*
Package ledger implements Ledger contract, a minimal custodial GAS holder.

Ledger contract accepts GAS deposits from any account and keeps a single
aggregate balance. Only the owner, the account that sent the deploying
transaction, can withdraw, and only within the available balance. The contract
is deployed with a single integer identifier which has no effect on the logic
and is used to distinguish contract instances.

Failed withdrawals are reported with a FAULT exception prefixed by the exit
code (see ledgerconst package):

	132 - withdrawal is not witnessed by the owner
	104 - requested amount exceeds the balance
	134 - requested amount is not positive

The owner check is always done before the balance check.

# Contract notifications

Deposit notification. This notification is produced when GAS is transferred
to the contract.

	Deposit
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Withdrawal notification. This notification is produced when GAS is
transferred from the contract to the owner.

	Withdrawal
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package ledger

/*
Contract storage model.

# Summary
Key-value storage format:
  - "s" -> std.Serialize(State)
    identifier, owner and balance of the contract
*/
