package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/config"
	"github.com/zhubert/chatstate/internal/kv"
	"github.com/zhubert/chatstate/internal/logger"
	"github.com/zhubert/chatstate/internal/state"
	"github.com/zhubert/chatstate/internal/ui"
)

var (
	debugMode             bool
	quietMode             bool
	noColor               bool
	configPath            string
	backendFlag           string
	dataDirFlag           string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "chatstate",
	Short: "Inspect and edit persisted chat client state",
	Long: `chatstate manages the state a chat client keeps between runs: the model
configuration, the backend server settings and the recently used personas.
Values are stored in a local key/value store (a JSON file by default, or SQLite).`,
	RunE:          runStatus,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.chatstate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: "+strings.Join(kv.Backends, ", "))
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the store")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.SetPlain(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("chatstate %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("chatstate %s\n", version)
}

// appEnv is what every command works against: the merged settings, the
// open store and the containers built over it.
type appEnv struct {
	cfg   *config.Config
	store kv.Store
	state *state.State
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file, then applies environment and flag overrides.
func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadAndMerge(path, os.Getenv)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid flags: %s", errs[0].Error())
	}
	return cfg, nil
}

// openEnv loads settings, starts logging and opens the store and containers.
// The caller must Close the result.
func openEnv() (*appEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.LogFile != "" {
		if err := logger.Init(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if cfg.Debug && !quietMode {
		logger.SetDebug(true)
	}

	store, err := kv.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	opts := []state.Option{
		state.WithClearDelay(cfg.ActClearDelayOrDefault(state.DefaultActClearDelay)),
		state.WithFallbackModel(cfg.FallbackModel),
		state.WithSessionFields(cfg.Session),
	}
	if cfg.RecentExpire != nil && cfg.RecentExpire.Duration > 0 {
		opts = append(opts, state.WithStructuredOptions(kv.WithExpire(cfg.RecentExpire.Duration)))
	}
	st := state.Open(store, opts...)

	logger.ComponentLogger("cmd").Debug("environment opened",
		"backend", cfg.Backend, "data_dir", cfg.DataDir)
	return &appEnv{cfg: cfg, store: store, state: st}, nil
}

// Close stops the session timer and closes the store.
func (e *appEnv) Close() error {
	e.state.Close()
	return e.store.Close()
}

// withEnv opens the environment, runs fn and closes it again.
func withEnv(fn func(*appEnv) error) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			logger.ComponentLogger("cmd").Warn("error closing store", "error", cerr)
		}
	}()
	return fn(env)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		mc := env.state.ModelConfig.Get()
		sc := env.state.ServerConfig.Get()

		persona := ""
		if mc.Gpts != nil {
			persona = mc.Gpts.Name
		}

		fmt.Fprint(cmd.OutOrStdout(), ui.KeyValues("chatstate", []ui.KV{
			{Key: "backend", Value: env.cfg.Backend},
			{Key: "data dir", Value: env.cfg.DataDir},
			{Key: "model", Value: env.state.ModelConfig.EffectiveModel()},
			{Key: "persona", Value: persona},
			{Key: "api base", Value: sc.APIBaseURL},
			{Key: "recent", Value: fmt.Sprintf("%d", env.state.RecentItems.Len())},
			{Key: "log file", Value: logger.Path()},
		}))
		return nil
	})
}
