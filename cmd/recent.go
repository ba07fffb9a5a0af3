package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/state"
	"github.com/zhubert/chatstate/internal/ui"
)

var recentJSON bool

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List, add or clear recently used personas",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently used personas, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRecentList,
}

var recentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Use a persona: move it to the front of the list and select it",
	Long: `Records the persona as most recently used and selects it on the model
configuration. An entry with the same gid is replaced. When --gid is omitted a
new random gid is generated.`,
	Args: cobra.NoArgs,
	RunE: runRecentAdd,
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recently used persona",
	Args:  cobra.NoArgs,
	RunE:  runRecentClear,
}

func init() {
	recentListCmd.Flags().BoolVar(&recentJSON, "json", false, "Print the list as JSON")

	f := recentAddCmd.Flags()
	f.String("gid", "", "Persona group id (generated when empty)")
	f.String("name", "", "Display name")
	f.String("logo", "", "Logo URL")
	f.String("info", "", "Short description")
	f.String("link", "", "Link to the persona")

	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentAddCmd)
	recentCmd.AddCommand(recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}

func runRecentList(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		items := env.state.RecentItems.Items()
		out := cmd.OutOrStdout()
		if recentJSON {
			return printJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, ui.Hint("No recently used personas."))
			return nil
		}

		selected := ""
		if g := env.state.ModelConfig.Get().Gpts; g != nil {
			selected = g.GID
		}
		rows := make([][]string, len(items))
		for i, p := range items {
			mark := ""
			if p.GID == selected {
				mark = "*"
			}
			rows[i] = []string{mark, p.GID, p.Name, p.Info}
		}
		fmt.Fprint(out, ui.Table([]string{"", "GID", "NAME", "INFO"}, rows, 40))
		return nil
	})
}

func runRecentAdd(cmd *cobra.Command, args []string) error {
	gid, _ := cmd.Flags().GetString("gid")
	if gid == "" {
		gid = uuid.NewString()
	}
	p := state.Persona{GID: gid}
	p.Name, _ = cmd.Flags().GetString("name")
	p.Logo, _ = cmd.Flags().GetString("logo")
	p.Info, _ = cmd.Flags().GetString("info")
	p.Link, _ = cmd.Flags().GetString("link")

	return withEnv(func(env *appEnv) error {
		_, seen := env.state.RecentItems.Find(p.GID)
		if err := env.state.UsePersona(p); err != nil {
			return fmt.Errorf("error saving persona: %w", err)
		}
		msg := fmt.Sprintf("using persona %s (%s)", p.Name, p.GID)
		if seen {
			msg += ", moved to the front"
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(msg))
		return nil
	})
}

func runRecentClear(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		n := env.state.RecentItems.Len()
		if err := env.state.RecentItems.Clear(); err != nil {
			return fmt.Errorf("error clearing recent personas: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%d recent persona(s) forgotten", n)))
		return nil
	})
}
