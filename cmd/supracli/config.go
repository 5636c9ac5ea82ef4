package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/client"
	"github.com/iov-one/suprasig/tx"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// config holds defaults shared by all commands. Flags always take precedence.
type config struct {
	RPCURL       string
	Network      string
	MaxGas       uint64
	GasUnitPrice uint64
	Expiration   time.Duration
}

// loadConfig reads the configuration file pointed by SUPRACLI_CONFIG or, if
// present, ~/.supracli.yaml. Each value can be overwritten with a SUPRACLI_
// prefixed environment variable, for example SUPRACLI_RPC_URL.
func loadConfig() (*config, error) {
	v := viper.New()
	v.SetDefault("network", "testnet")
	v.SetDefault("expiration", tx.DefaultExpiration)
	v.SetEnvPrefix("supracli")
	v.AutomaticEnv()

	path := env("SUPRACLI_CONFIG", "")
	if path == "" {
		home := filepath.Join(os.Getenv("HOME"), ".supracli.yaml")
		if _, err := os.Stat(home); err == nil {
			path = home
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read configuration %q: %s", path, err)
		}
	}

	return &config{
		RPCURL:       v.GetString("rpc_url"),
		Network:      v.GetString("network"),
		MaxGas:       v.GetUint64("max_gas"),
		GasUnitPrice: v.GetUint64("gas_unit_price"),
		Expiration:   v.GetDuration("expiration"),
	}, nil
}

// nodeURL returns the configured node address. An explicit URL wins over
// the network name.
func (c *config) nodeURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	if u, err := client.NetworkURL(c.Network); err == nil {
		return u
	}
	return client.TestnetURL
}

type nodeOptions struct {
	url      *string
	logLevel *string
}

// flNode registers flags required to talk to a ledger node.
func flNode(fl *flag.FlagSet, cfg *config) *nodeOptions {
	return &nodeOptions{
		url: fl.String("rpc", cfg.nodeURL(),
			"Ledger node RPC address. You can set it with rpc_url or network in the configuration file."),
		logLevel: fl.String("log-level", "error",
			"Log level of the node client. Logs are written to standard error. One of debug, info, error, none."),
	}
}

func (o *nodeOptions) client() (*client.Client, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "supracli")
	level, err := log.AllowLevel(*o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return client.NewClient(*o.url, client.WithLogger(log.NewFilter(logger, level))), nil
}

type buildOptions struct {
	node       *nodeOptions
	from       *suprasig.Address
	seq        *int64
	chainID    *uint
	maxGas     *uint64
	gasPrice   *uint64
	expiration *time.Duration
}

// flBuild registers flags required to build a raw transaction. Values that
// are not provided are queried from the node.
func flBuild(fl *flag.FlagSet, cfg *config) *buildOptions {
	return &buildOptions{
		node: flNode(fl, cfg),
		from: flAddress(fl, "from", "", "Address of the account sending the transaction."),
		seq: fl.Int64("seq", -1,
			"Sequence number of the transaction. By default the next sequence number of the sender is queried."),
		chainID: fl.Uint("chain-id", 0,
			"Chain ID the transaction is valid for. By default it is queried."),
		maxGas: fl.Uint64("max-gas", cfg.MaxGas,
			"Maximum gas the transaction can consume. Zero selects a default."),
		gasPrice: fl.Uint64("gas-price", cfg.GasUnitPrice,
			"Gas unit price. Zero selects a default."),
		expiration: fl.Duration("expiration", cfg.Expiration,
			"How long the transaction stays valid."),
	}
}

// build returns an envelope with a raw transaction carrying given payload.
// fallbackGas is used when no max gas was requested.
func (o *buildOptions) build(ctx context.Context, payload tx.Payload, fallbackGas uint64) (*tx.Envelope, error) {
	if o.from.IsZero() {
		return nil, fmt.Errorf("sender address is required")
	}
	if *o.chainID > 255 {
		return nil, fmt.Errorf("chain id %d out of range", *o.chainID)
	}

	var seq uint64
	if *o.seq >= 0 {
		seq = uint64(*o.seq)
	} else {
		c, err := o.node.client()
		if err != nil {
			return nil, err
		}
		if seq, err = client.NewNonce(c, *o.from).Next(ctx); err != nil {
			return nil, fmt.Errorf("cannot get the next sequence number: %s", err)
		}
	}

	b := tx.NewBuilder(*o.from, seq, payload).
		WithChainID(uint8(*o.chainID)).
		WithGasUnitPrice(*o.gasPrice).
		WithExpiration(suprasig.AsUnixTime(time.Now()).Add(*o.expiration))
	if *o.maxGas != 0 {
		b.WithMaxGas(*o.maxGas)
	} else {
		b.WithMaxGas(fallbackGas)
	}
	if *o.chainID == 0 {
		c, err := o.node.client()
		if err != nil {
			return nil, err
		}
		b.WithChainIDSource(c)
	}
	raw, err := b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot build transaction: %s", err)
	}
	return tx.NewEnvelope(raw), nil
}
