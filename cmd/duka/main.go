// duka is a thin command-line storefront over the go-duka SDK:
// browse the catalog, keep a local cart and pay via M-Pesa STK push.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	go_duka "github.com/dukahq/go-duka"
	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/log/zapadapter"
	"github.com/dukahq/go-duka/storage"
)

var (
	verbose    bool
	configPath string

	cfg    fileConfig
	logger *zap.Logger

	client go_duka.Duka
	basket *cart.Store
)

// fileConfig is the optional ~/.duka.yaml.
type fileConfig struct {
	BaseURL   string `yaml:"base_url"`
	StateFile string `yaml:"state_file"`
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "duka-state.json"
	}
	return filepath.Join(home, ".duka", "state.json")
}

func loadConfig(path string) (fileConfig, error) {
	out := fileConfig{StateFile: defaultStateFile()}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return out, nil
		}
		path = filepath.Join(home, ".duka.yaml")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("parse config %s: %w", path, err)
	}
	if out.StateFile == "" {
		out.StateFile = defaultStateFile()
	}
	return out, nil
}

var rootCmd = &cobra.Command{
	Use:           "duka",
	Short:         "Duka storefront client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}

		kv, err := storage.NewFile(cfg.StateFile)
		if err != nil {
			return err
		}
		basket = cart.NewStore(kv)

		opts := []go_duka.Option{
			go_duka.WithCredentialStorage(kv),
			go_duka.WithLogger(zapadapter.New(logger)),
			go_duka.WithCircuitBreaker(),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, go_duka.WithBaseURL(cfg.BaseURL))
		}
		client, err = go_duka.NewClient(opts...)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.duka.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, go_duka.UserMessage(err))
		os.Exit(1)
	}
}
