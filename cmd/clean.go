package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/logger"
	"github.com/zhubert/chatstate/internal/state"
)

var skipConfirm bool

// stateKeys are the keys the persisted containers own.
var stateKeys = []string{state.ModelConfigKey, state.ServerConfigKey, state.RecentItemsKey}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all stored state and log files",
	Long: `Removes the model configuration, the server settings and the recently used
persona list from the store, and deletes chatstate's log files.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		return runCleanWithReader(env, cmd.InOrStdin(), cmd.OutOrStdout())
	})
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(env *appEnv, input io.Reader, out io.Writer) error {
	var present []string
	for _, key := range stateKeys {
		_, ok, err := env.store.Get(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error reading %s: %v\n", key, err)
			continue
		}
		if ok {
			present = append(present, key)
		}
	}

	fmt.Fprintln(out, "This will clean:")
	if len(present) > 0 {
		fmt.Fprintf(out, "  - %d stored record(s)\n", len(present))
		for _, key := range present {
			fmt.Fprintf(out, "      %s\n", key)
		}
	}
	fmt.Fprintln(out, "  - All chatstate log files")

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	removed := 0
	for _, key := range present {
		if err := env.store.Remove(key); err != nil {
			return fmt.Errorf("error removing %s: %w", key, err)
		}
		removed++
	}

	logsCleared, err := logger.ClearLogs(env.cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	// Print results
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	fmt.Fprintf(out, "  - %d stored record(s) removed\n", removed)
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}

	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
