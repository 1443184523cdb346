// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/lvldb"
	ldruntime "github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

func initLogger(ctx *cli.Context) {
	logLevel.Set(log.FromVerbosity(ctx.Int(verbosityFlag.Name)))
	fd := os.Stderr.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	log.SetDefault(log.NewHandler(os.Stderr, logLevel, ctx.Bool(jsonLogsFlag.Name), color))
}

// instance holds the opened databases of a data dir.
type instance struct {
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
	rt    *ldruntime.Runtime
}

func openInstance(ctx *cli.Context) (*instance, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	db, err := lvldb.New(filepath.Join(dataDir, "state.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	logDB, err := logdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open event database")
	}
	rt, err := ldruntime.New(db, logDB, clockOf(ctx))
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	logger.Debug("instance opened", "dir", dataDir, "seq", rt.Seq(), "lastTime", rt.LastTime())
	return &instance{db, logDB, rt}, nil
}

func (i *instance) Close() {
	if err := i.logDB.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	if err := i.db.Close(); err != nil {
		logger.Warn("failed to close state database", "err", err)
	}
}

// openDeployed opens the instance and fails if init has not been run.
func openDeployed(ctx *cli.Context) (*instance, error) {
	inst, err := openInstance(ctx)
	if err != nil {
		return nil, err
	}
	deployed, err := genesis.IsDeployed(inst.rt)
	if err != nil {
		inst.Close()
		return nil, err
	}
	if !deployed {
		inst.Close()
		return nil, errors.New("contracts not deployed, run init first")
	}
	return inst, nil
}

func clockOf(ctx *cli.Context) ld.Clock {
	if ctx.GlobalIsSet(timeFlag.Name) {
		return ld.FixedClock(ctx.GlobalUint64(timeFlag.Name))
	}
	return ld.SystemClock
}

func callerOf(ctx *cli.Context) (ld.Address, error) {
	s := ctx.GlobalString(callerFlag.Name)
	if s == "" {
		return ld.Address{}, fmt.Errorf("--%s is required", callerFlag.Name)
	}
	addr, err := ld.ParseAddress(s)
	if err != nil {
		return ld.Address{}, errors.WithMessage(err, "caller")
	}
	return addr, nil
}

// submit executes fn as the --caller and prints the receipt. A --time
// earlier than the last committed call is rejected.
func submit(ctx *cli.Context, method string, fn utils.CallFunc) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return err
	}
	inst, err := openDeployed(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	txCtx := &xenv.TransactionContext{Caller: caller, Method: method}
	if ctx.GlobalIsSet(timeFlag.Name) {
		txCtx.Time = ctx.GlobalUint64(timeFlag.Name)
	}
	var output any
	receipt, err := inst.rt.Execute(context.Background(), txCtx, func(env *xenv.Environment) error {
		out, err := fn(env)
		output = out
		return err
	})
	if err != nil {
		return err
	}
	res := utils.ConvertReceipt(receipt)
	res.Output = output
	return printJSON(ctx, res)
}

// view runs fn against the committed state.
func view(ctx *cli.Context, fn func(env *xenv.Environment) error) error {
	inst, err := openDeployed(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()
	return inst.rt.View(fn)
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(data))
	return err
}

func printReceipt(ctx *cli.Context, receipt *tx.Receipt) error {
	return printJSON(ctx, utils.ConvertReceipt(receipt))
}

func requireArgs(ctx *cli.Context, n int) error {
	if ctx.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", ctx.Command.Name, n, ctx.NArg())
	}
	return nil
}

func addressArg(ctx *cli.Context, i int) (ld.Address, error) {
	addr, err := ld.ParseAddress(ctx.Args().Get(i))
	if err != nil {
		return ld.Address{}, errors.WithMessagef(err, "argument %d", i+1)
	}
	return addr, nil
}

func amountArg(ctx *cli.Context, i int) (*big.Int, error) {
	amount, err := ld.ParseAmount(ctx.Args().Get(i))
	if err != nil {
		return nil, errors.WithMessagef(err, "argument %d", i+1)
	}
	return amount, nil
}

func uintArg(ctx *cli.Context, i int) (uint64, error) {
	v, err := strconv.ParseUint(ctx.Args().Get(i), 10, 64)
	if err != nil {
		return 0, errors.WithMessagef(err, "argument %d", i+1)
	}
	return v, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.ldstaking.ldstake")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.ldstaking.ldstake")
		}
		return filepath.Join(home, ".org.ldstaking.ldstake")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
