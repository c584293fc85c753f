package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/collection"
	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/ledger"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/store"
)

// simBuyers is the number of distinct public buyers the dry run cycles through.
const simBuyers = 8

func newSimulateCmd(a *app) *cobra.Command {
	var (
		cfgPath, dbPath string
		memory          bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Dry-run a complete sale",
		Long: `Creates the configured collection against an in-memory ledger and
treasury, then runs a sale end to end: reserve mint, one allowlist mint,
public sale up to the limit, withdrawal, every reveal batch and a final
bijection check.

The configured operator is replaced by an ephemeral key so the run can sign
its own allowance. The final state is kept in a bolt file, by default
<data_dir>/<name>.db, which must not already hold a collection. --memory
keeps nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if err := a.applyLogLevel(cfg); err != nil {
				return err
			}
			var st store.Store = store.NewMemStore()
			if !memory {
				if dbPath == "" {
					dbPath = filepath.Join(cfg.DataDir, cfg.Name+".db")
				}
				bs, err := store.OpenBoltStore(dbPath)
				if err != nil {
					return err
				}
				defer bs.Close()
				a.log.Info("simulation state", zap.String("db", dbPath))
				st = bs
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), a.log, cfg, st)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Collection config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Bolt file for the resulting state (default <data_dir>/<name>.db)")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep the state in memory only")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func simulate(ctx context.Context, w io.Writer, log *zap.Logger, cfg config.CollectionConfig, st store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	key, err := ec.NewPrivateKey()
	if err != nil {
		return err
	}
	op := access.AddressFromPubKey(key.PubKey())
	cfg.Operator = op
	if cfg.Guardian.IsZero() {
		cfg.Guardian = buyer(0xFF)
	}

	reg := prometheus.NewRegistry()
	events := collection.NewEventLog()
	led := ledger.NewMemLedger()
	treasury := ledger.NewMemTreasury()
	c, err := collection.New(cfg, led, treasury,
		collection.WithLogger(log),
		collection.WithMetrics(metrics.New(reg)),
		collection.WithStore(st),
		collection.WithEventSink(events))
	if err != nil {
		return err
	}

	if cfg.OwnerLimit > 0 {
		if _, err := c.OwnerMint(ctx, op, cfg.OwnerLimit); err != nil {
			return fmt.Errorf("reserve mint: %w", err)
		}
	}

	if _, err := c.ToggleAllowlist(op); err != nil {
		return err
	}
	if q := min(c.MaxQuantity(), c.Limit()-c.TotalMinted()); q > 0 {
		vip := buyer(0xA0)
		sig, err := allowlist.Sign(key, c.CollectionID(), vip, c.MinimumIndex())
		if err != nil {
			return err
		}
		if _, err := c.MintWithSignature(ctx, vip, q, c.MinimumIndex(), sig, q*c.Price()); err != nil {
			return fmt.Errorf("allowlist mint: %w", err)
		}
	}
	if _, err := c.ToggleAllowlist(op); err != nil {
		return err
	}

	if _, err := c.TogglePublicSale(op); err != nil {
		return err
	}
	for i := 0; c.TotalMinted() < c.Limit(); i++ {
		q := min(c.MaxQuantity(), c.Limit()-c.TotalMinted())
		if q == 0 {
			return fmt.Errorf("public sale stalled at %d of %d: max_quantity is zero", c.TotalMinted(), c.Limit())
		}
		if _, err := c.Mint(ctx, buyer(byte(i%simBuyers)+1), q, q*c.Price()); err != nil {
			return fmt.Errorf("public mint: %w", err)
		}
	}
	if _, err := c.TogglePublicSale(op); err != nil {
		return err
	}

	wd, err := c.WithdrawFunds(ctx, op)
	if err != nil {
		return err
	}

	for b := uint64(1); b <= c.Batches(); b++ {
		if _, err := c.SetBatchOffset(ctx, op, b); err != nil {
			return fmt.Errorf("reveal batch %d: %w", b, err)
		}
	}
	if err := c.Verify(); err != nil {
		return err
	}

	first, err := c.ResolveMetadata(ctx, 0)
	if err != nil {
		return err
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}

	opAddr, err := op.Base58(cfg.Mainnet())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "collection: %s (%s)\n", c.Name(), c.CollectionID())
	fmt.Fprintf(w, "operator:   %s\n", opAddr)
	fmt.Fprintf(w, "minted:     %d (reserve %d)\n", c.TotalMinted(), c.OwnerMinted())
	fmt.Fprintf(w, "withdrawn:  %d\n", wd.Amount)
	fmt.Fprintf(w, "revealed:   %d of %d batches, bijection ok\n", c.CurrentBatch(), c.Batches())
	fmt.Fprintf(w, "token 0:    %s\n", first)
	fmt.Fprintf(w, "events:     %d\n", events.Len())
	fmt.Fprintf(w, "metrics:    %d families\n", len(mfs))
	return nil
}

func buyer(seed byte) access.Address {
	var a access.Address
	for i := range a {
		a[i] = seed
	}
	return a
}
