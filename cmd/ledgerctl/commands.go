package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nzcom/ledger-contract/contracts"
	"github.com/nzcom/ledger-contract/deploy"
	"github.com/nzcom/ledger-contract/rpc/ledger"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	defaultNEFPath      = "contracts/ledger/contract.nef"
	defaultManifestPath = "contracts/ledger/manifest.json"
)

// version is set at build time.
var version = "dev"

func (x *ctl) dial(ctx context.Context) (*rpcclient.Client, error) {
	if err := x.cfg.validate(); err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, x.cfg.RPC, rpcclient.Options{
		DialTimeout:    x.cfg.Timeout,
		RequestTimeout: x.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	x.log.Debug("connected to Neo RPC server", zap.String("endpoint", x.cfg.RPC))

	return c, nil
}

// newActor opens the configured wallet account and makes an actor signing
// transactions with it.
func (x *ctl) newActor(c *rpcclient.Client) (*actor.Actor, error) {
	if x.cfg.Wallet == "" {
		return nil, errors.New("missing wallet file")
	}

	w, err := wallet.NewWalletFromFile(x.cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var accAddr util.Uint160
	if x.cfg.Address != "" {
		accAddr, err = address.StringToUint160(x.cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid account address %q: %w", x.cfg.Address, err)
		}
	} else {
		accAddr = w.GetChangeAddress()
	}

	acc := w.GetAccount(accAddr)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(accAddr))
	}

	err = acc.Decrypt(x.cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return act, nil
}

func (x *ctl) deploy(c *cli.Context) error {
	if !c.IsSet("id") {
		return cli.NewExitError("missing contract instance identifier", 1)
	}

	ctr, err := readContract(c.String("nef"), c.String("manifest"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rpc, err := x.dial(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	act, err := x.newActor(rpc)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:     x.log,
		Blockchain: rpc,
		Actor:      act,
		NEF:        ctr.NEF,
		Manifest:   ctr.Manifest,
		ID:         c.Int64("id"),
	})
	if err != nil {
		return cli.NewExitError(fmt.Errorf("deploy Ledger contract: %w", err), 1)
	}

	fmt.Fprintln(c.App.Writer, addr.StringLE())

	return nil
}

func (x *ctl) deposit(c *cli.Context) error {
	return x.sendGAS(c, "deposit", func(l *ledger.Contract, amount string) (util.Uint256, uint32, error) {
		v, err := parseGAS(amount)
		if err != nil {
			return util.Uint256{}, 0, err
		}
		return l.Deposit(v)
	})
}

func (x *ctl) withdraw(c *cli.Context) error {
	return x.sendGAS(c, "withdraw", func(l *ledger.Contract, amount string) (util.Uint256, uint32, error) {
		v, err := parseGAS(amount)
		if err != nil {
			return util.Uint256{}, 0, err
		}
		return l.Withdraw(v)
	})
}

// sendGAS runs state-changing operation of the Ledger contract and waits for
// its result. Contract check failures end the process with the corresponding
// exit code.
func (x *ctl) sendGAS(c *cli.Context, op string, send func(*ledger.Contract, string) (util.Uint256, uint32, error)) error {
	if c.NArg() != 1 {
		return cli.NewExitError(fmt.Sprintf("%s: exactly one GAS amount argument expected", op), 1)
	}

	h, err := x.cfg.contractHash()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	rpc, err := x.dial(context.Background())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	act, err := x.newActor(rpc)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	l := x.log.With(zap.String("op", op), zap.String("contract", h.StringLE()), zap.String("amount", c.Args().First()))

	res, err := act.Wait(send(ledger.New(act, h), c.Args().First()))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", op, err), 1)
	}

	l.Info("transaction accepted", zap.Stringer("tx", res.Container), zap.Stringer("state", res.VMState))

	return resultError(op, res)
}

// resultError converts FAULT execution result into cli.ExitCoder.
func resultError(op string, res *state.AppExecResult) error {
	err := ledger.CheckExitCode(res)
	if err == nil {
		return nil
	}

	code := 1
	if res != nil {
		if c, ok := ledger.ExitCode(res.FaultException); ok {
			code = c
		}
	}

	return cli.NewExitError(fmt.Errorf("%s: %w", op, err), code)
}

func (x *ctl) info(c *cli.Context) error {
	h, err := x.cfg.contractHash()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	rpc, err := x.dial(context.Background())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer rpc.Close()

	r := ledger.NewReader(invoker.New(rpc, nil), h)

	id, err := r.GetID()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get ID: %w", err), 1)
	}

	owner, err := r.GetOwnerAddress()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get owner: %w", err), 1)
	}

	balance, err := r.GetBalance()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get balance: %w", err), 1)
	}

	ver, err := r.Version()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get version: %w", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "ID:      %s\n", id)
	fmt.Fprintf(c.App.Writer, "Owner:   %s\n", owner)
	fmt.Fprintf(c.App.Writer, "Balance: %s GAS\n", formatGAS(balance))
	fmt.Fprintf(c.App.Writer, "Version: %s\n", ver)

	return nil
}

// readContract reads compiled contract from the given files. Relative paths
// are resolved against the working directory.
func readContract(nefPath, manifestPath string) (contracts.Contract, error) {
	nefAbs, err := filepath.Abs(nefPath)
	if err != nil {
		return contracts.Contract{}, fmt.Errorf("resolve NEF path: %w", err)
	}

	manifestAbs, err := filepath.Abs(manifestPath)
	if err != nil {
		return contracts.Contract{}, fmt.Errorf("resolve manifest path: %w", err)
	}

	// fs.FS paths are unrooted and slash-separated.
	return contracts.ReadFiles(os.DirFS("/"), fsPath(nefAbs), fsPath(manifestAbs))
}

func fsPath(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(p), "/")
}
