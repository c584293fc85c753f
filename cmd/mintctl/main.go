// Command mintctl manages allowlist signer keys and allowances for a
// collection, validates collection configs and dry-runs a full sale.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitfsorg/libmint-go/config"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "LIBMINT_PASSWORD"

type app struct {
	verbose bool
	level   zap.AtomicLevel
	log     *zap.Logger
}

func newApp() *app {
	return &app{level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

// applyLogLevel adopts a config's log_level unless --verbose already forced
// debug output.
func (a *app) applyLogLevel(cfg config.CollectionConfig) error {
	if a.verbose {
		return nil
	}
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %s", config.ErrInvalidLogLevel, cfg.LogLevel)
	}
	a.level.SetLevel(lvl)
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mintctl",
		Short: "Allowlist signer and collection tooling",
		Long: `mintctl manages the allowlist signer of a fixed-supply collection.

It generates and seals the signer seed, signs per-recipient allowances,
verifies them, validates collection configs and runs a complete sale
against in-memory collaborators.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				a.level.SetLevel(zapcore.DebugLevel)
			}
			if a.log != nil {
				return nil
			}
			zc := zap.NewProductionConfig()
			zc.Level = a.level
			var err error
			a.log, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newKeygenCmd(a),
		newAddressCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newConfigCmd(a),
		newSimulateCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// password returns the flag value, falling back to the environment.
func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no password: pass --password or set %s", passwordEnv)
}
