// Command ledgerctl deploys and operates Ledger contract instances on a Neo
// network through the Neo RPC server.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ctl holds the state shared by all ledgerctl commands.
type ctl struct {
	cfg config
	log *zap.Logger
}

func main() {
	x := new(ctl)

	app := newApp(x)

	// cli.ExitCoder errors terminate the process with their own code inside
	// Run, everything else ends here.
	err := app.Run(os.Args)
	if x.log != nil {
		_ = x.log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(x *ctl) *cli.App {
	app := cli.NewApp()
	app.Name = "ledgerctl"
	app.Usage = "Ledger contract operator tool"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: configFlag, Usage: "path to the YAML configuration file"},
		cli.StringFlag{Name: rpcFlag + ", r", Usage: "Neo RPC server endpoint"},
		cli.StringFlag{Name: walletFlag + ", w", Usage: "path to the NEP-6 wallet file"},
		cli.StringFlag{Name: addressFlag + ", a", Usage: "wallet account to sign transactions with (default: change address)"},
		cli.StringFlag{Name: contractFlag + ", c", Usage: "Ledger contract address or LE script hash"},
		cli.DurationFlag{Name: timeoutFlag + ", t", Value: defaultTimeout, Usage: "RPC dial and request timeout"},
		cli.BoolFlag{Name: debugFlag + ", d", Usage: "enable debug logging"},
	}
	app.Before = x.before
	app.Commands = []cli.Command{
		{
			Name:      "deploy",
			Usage:     "deploy new Ledger contract instance owned by the wallet account",
			UsageText: "ledgerctl deploy [--nef <file>] [--manifest <file>] --id <id>",
			Action:    x.deploy,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "nef", Value: defaultNEFPath, Usage: "compiled contract file"},
				cli.StringFlag{Name: "manifest", Value: defaultManifestPath, Usage: "contract manifest file"},
				cli.Int64Flag{Name: "id", Usage: "contract instance identifier"},
			},
		},
		{
			Name:      "deposit",
			Usage:     "transfer GAS from the wallet account to the Ledger contract",
			UsageText: "ledgerctl deposit <amount>",
			Action:    x.deposit,
		},
		{
			Name:      "withdraw",
			Usage:     "withdraw GAS from the Ledger contract to its owner",
			UsageText: "ledgerctl withdraw <amount>",
			Action:    x.withdraw,
		},
		{
			Name:   "info",
			Usage:  "print Ledger contract state",
			Action: x.info,
		},
	}

	return app
}

func (x *ctl) before(c *cli.Context) error {
	cfg, err := loadConfig(c.String(configFlag))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	mergeFlags(&cfg, c)

	x.cfg = cfg
	x.log, err = newLogger(cfg.Debug)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("init logger: %w", err), 1)
	}

	x.log = x.log.With(zap.String("session", uuid.NewString()))

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.DisableStacktrace = true
	if debug {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return c.Build()
}
