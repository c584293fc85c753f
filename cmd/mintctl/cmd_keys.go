package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/wallet"
)

type seedFlags struct {
	path       string
	password   string
	index      uint32
	testnet    bool
	configPath string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "seed", "", "Sealed seed file")
	cmd.Flags().StringVar(&f.password, "password", "", "Seed password (default $"+passwordEnv+")")
	cmd.Flags().Uint32Var(&f.index, "index", 0, "Signer derivation index")
	cmd.Flags().BoolVar(&f.testnet, "testnet", false, "Render addresses for testnet")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Collection config; its network selects the address prefix")
	_ = cmd.MarkFlagRequired("seed")
}

// collectionConfig loads --config, or returns false when it is not set.
func (f *seedFlags) collectionConfig() (config.CollectionConfig, bool, error) {
	if f.configPath == "" {
		return config.CollectionConfig{}, false, nil
	}
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return cfg, false, err
	}
	if cfg.Network != "mainnet" && cfg.Network != "testnet" {
		return cfg, false, fmt.Errorf("%s: %w", f.configPath, config.ErrInvalidNetwork)
	}
	return cfg, true, nil
}

// mainnet resolves the address network: --testnet wins, then the config.
func (f *seedFlags) mainnet() (bool, error) {
	if f.testnet {
		return false, nil
	}
	cfg, ok, err := f.collectionConfig()
	if err != nil || !ok {
		return true, err
	}
	return cfg.Mainnet(), nil
}

func (f *seedFlags) signer() (*wallet.Signer, error) {
	mainnet, err := f.mainnet()
	if err != nil {
		return nil, err
	}
	pw, err := password(f.password)
	if err != nil {
		return nil, err
	}
	seed, err := wallet.ReadSeedFile(f.path, pw)
	if err != nil {
		return nil, err
	}
	k, err := wallet.NewKeyring(seed, mainnet)
	if err != nil {
		return nil, err
	}
	return k.Signer(f.index)
}

// collectionID parses hexID, falling back to the identity derived from
// --config.
func (f *seedFlags) collectionID(hexID string) (allowlist.CollectionID, error) {
	if hexID != "" {
		return allowlist.ParseCollectionID(hexID)
	}
	cfg, ok, err := f.collectionConfig()
	if err != nil {
		return allowlist.CollectionID{}, err
	}
	if !ok {
		return allowlist.CollectionID{}, fmt.Errorf("%w: pass --collection or --config", allowlist.ErrInvalidCollectionID)
	}
	if cfg.Operator.IsZero() {
		return allowlist.CollectionID{}, fmt.Errorf("%s: %w", f.configPath, config.ErrMissingPrincipal)
	}
	return allowlist.DeriveCollectionID(cfg.Name, cfg.Operator), nil
}

func newKeygenCmd(a *app) *cobra.Command {
	var (
		out      string
		pw       string
		words24  bool
		mnemonic string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create and seal a new signer seed",
		Long: `Generates a BIP39 mnemonic (or imports one with --mnemonic), seals the
derived seed with the password and prints the signer address at index 0.

Write the mnemonic down. It is the only backup of the seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := password(pw)
			if err != nil {
				return err
			}
			generated := mnemonic == ""
			if generated {
				bits := wallet.Mnemonic12Words
				if words24 {
					bits = wallet.Mnemonic24Words
				}
				if mnemonic, err = wallet.GenerateMnemonic(bits); err != nil {
					return err
				}
			}
			seed, err := wallet.SeedFromMnemonic(mnemonic, "")
			if err != nil {
				return err
			}
			if err := wallet.WriteSeedFile(out, seed, pass); err != nil {
				return err
			}
			k, err := wallet.NewKeyring(seed, true)
			if err != nil {
				return err
			}
			s, err := k.Signer(0)
			if err != nil {
				return err
			}
			a.log.Info("seed sealed", zap.String("path", out), zap.Stringer("signer", s.Address))

			w := cmd.OutOrStdout()
			if generated {
				fmt.Fprintf(w, "mnemonic: %s\n", mnemonic)
			}
			fmt.Fprintf(w, "seed:     %s\n", out)
			fmt.Fprintf(w, "signer:   %s (%s)\n", s.Address, s.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Sealed seed output path")
	cmd.Flags().StringVar(&pw, "password", "", "Seed password (default $"+passwordEnv+")")
	cmd.Flags().BoolVar(&words24, "words24", false, "Generate a 24-word mnemonic")
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "Import an existing mnemonic")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newAddressCmd(a *app) *cobra.Command {
	var sf seedFlags
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the signer address at an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sf.signer()
			if err != nil {
				return err
			}
			mainnet, err := sf.mainnet()
			if err != nil {
				return err
			}
			b58, err := s.Address.Base58(mainnet)
			if err != nil {
				return err
			}
			a.log.Debug("signer derived", zap.String("path", s.Path))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", s.Address, b58, s.Path)
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var (
		sf         seedFlags
		collection string
		outDir     string
		start      uint64
	)
	cmd := &cobra.Command{
		Use:   "sign ADDRESS...",
		Short: "Sign allowances for recipients",
		Long: `Signs one allowance per recipient address. Indices are assigned in
argument order starting at --start, and each allowance is written to
<out>/<address>.json.

The collection identifier comes from --collection, or is derived from the
name and operator of --config.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sf.collectionID(collection)
			if err != nil {
				return err
			}
			recipients := make([]access.Address, len(args))
			for i, arg := range args {
				if recipients[i], err = access.ParseAddress(arg); err != nil {
					return fmt.Errorf("recipient %d: %w", i, err)
				}
			}
			s, err := sf.signer()
			if err != nil {
				return err
			}
			for i, r := range recipients {
				al, err := s.SignAllowance(id, r, start+uint64(i))
				if err != nil {
					return err
				}
				path, err := wallet.WriteAllowance(outDir, al)
				if err != nil {
					return err
				}
				a.log.Debug("allowance signed", zap.Stringer("recipient", r), zap.Uint64("index", al.Index))
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s %s\n", al.Index, r, path)
			}
			a.log.Info("allowances signed", zap.Int("count", len(recipients)), zap.Stringer("signer", s.Address))
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&collection, "collection", "", "Collection identifier (hex)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().Uint64Var(&start, "start", 0, "First allowlist index")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var collection, signer string
	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check an allowance file against a collection and signer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := allowlist.ParseCollectionID(collection)
			if err != nil {
				return err
			}
			addr, err := access.ParseAddress(signer)
			if err != nil {
				return err
			}
			al, err := wallet.ReadAllowance(args[0])
			if err != nil {
				return err
			}
			if err := al.Verify(id, addr); err != nil {
				a.log.Warn("allowance rejected", zap.String("file", args[0]), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s may mint with index %d\n", al.Address, al.Index)
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Collection identifier (hex)")
	cmd.Flags().StringVar(&signer, "signer", "", "Expected signer address (hex)")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}
