package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/ui"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [key...]",
	Short: "Print raw stored values",
	Long: `Prints the raw values held in the store, pretty-printed when they are JSON.
With no arguments every key is printed.`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		keys := args
		if len(keys) == 0 {
			all, err := env.store.Keys()
			if err != nil {
				return err
			}
			keys = all
		}

		out := cmd.OutOrStdout()
		if len(keys) == 0 {
			fmt.Fprintln(out, ui.Hint("Store is empty."))
			return nil
		}

		for i, key := range keys {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, ui.Title(key))

			raw, ok, err := env.store.Get(key)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, ui.Hint("(not set)"))
				continue
			}
			fmt.Fprintln(out, formatStored(raw))
		}
		return nil
	})
}

// formatStored indents and highlights JSON values; anything else is returned as-is.
func formatStored(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return ui.HighlightJSON(buf.String())
}
