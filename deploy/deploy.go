package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Ledger contract deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns an error if the contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Actor groups functions needed to send and await deployment transaction.
// It is implemented by [actor.Actor].
type Actor interface {
	// Sender returns account deploying the contract. It becomes the contract
	// owner.
	Sender() util.Uint160

	// SendCall creates, signs and sends transaction calling the given method.
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)

	// Wait blocks until the transaction is accepted or expired.
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups parameters of the Ledger contract deployment.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Sender of the deploying transaction, the owner of the deployed
	// contract.
	Actor Actor

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest

	// Identifier of the contract instance.
	ID int64
}

// ErrContractMismatch is returned when a contract with the expected address is
// already deployed but has different executable.
var ErrContractMismatch = errors.New("contract with different executable is already deployed")

// ManifestName returns manifest name of the Ledger contract instance with the
// given identifier. Address of the contract depends on the deployer, NEF
// checksum and manifest name only, so the identifier is made a part of the
// name to give different instances different addresses.
func ManifestName(base string, id int64) string {
	return base + "-" + strconv.FormatInt(id, 10)
}

// ContractAddress returns address of the contract deployed with given
// parameters.
func ContractAddress(sender util.Uint160, nefFile nef.File, m manifest.Manifest, id int64) util.Uint160 {
	return state.CreateContractHash(sender, nefFile.Checksum, ManifestName(m.Name, id))
}

// Deploy deploys the Ledger contract to the blockchain on behalf of
// Prm.Actor and returns its address. If the very same contract instance is
// already deployed, Deploy does nothing.
//
// Deploy returns when the deploying transaction is accepted, an error
// occurs or the context is done.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	sender := prm.Actor.Sender()
	m := prm.Manifest
	m.Name = ManifestName(m.Name, prm.ID)
	addr := state.CreateContractHash(sender, prm.NEF.Checksum, m.Name)

	l := prm.Logger.With(zap.Stringer("address", addr), zap.String("name", m.Name))

	onChain, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil && onChain != nil {
		if onChain.NEF.Checksum != prm.NEF.Checksum {
			return util.Uint160{}, fmt.Errorf("%w: address %s", ErrContractMismatch, addr.StringLE())
		}

		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	l.Debug("contract is missing on the chain, deploying...", zap.NamedError("lookup error", err))

	bNEF, err := prm.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(m)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest: %w", err)
	}

	txHash, vub, err := prm.Actor.SendCall(management.Hash, "deploy", bNEF, jManifest, []any{prm.ID})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deploying transaction: %w", err)
	}

	l.Info("deploying transaction sent, waiting...",
		zap.Stringer("tx", txHash), zap.Uint32("valid until block", vub))

	res, err := wait(ctx, prm.Actor, txHash, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deploying transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deploying transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

type waitResult struct {
	res *state.AppExecResult
	err error
}

func wait(ctx context.Context, a Actor, h util.Uint256, vub uint32) (*state.AppExecResult, error) {
	ch := make(chan waitResult, 1)

	go func() {
		res, err := a.Wait(h, vub, nil)
		ch <- waitResult{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.res, r.err
	}
}
