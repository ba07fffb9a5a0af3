package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/notification"
	"github.com/zhubert/chatstate/internal/state"
	"github.com/zhubert/chatstate/internal/ui"
)

var (
	actData   string
	actNotify bool
	actNoWait bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Exercise the in-memory session state",
}

var sessionActCmd = &cobra.Command{
	Use:   "act <tag>",
	Short: "Dispatch an action tag and watch it clear",
	Long: `Sets the session's action tag (with an optional JSON payload), prints the
session, then waits for the delayed clear and prints it again.

Session state is not persisted; this command shows the clear timing that a
long-running client sees.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionAct,
}

func init() {
	sessionActCmd.Flags().StringVar(&actData, "data", "", "JSON payload for the action")
	sessionActCmd.Flags().BoolVar(&actNotify, "notify", false, "Raise a desktop notification")
	sessionActCmd.Flags().BoolVar(&actNoWait, "no-wait", false, "Exit without waiting for the clear")

	sessionCmd.AddCommand(sessionActCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionAct(cmd *cobra.Command, args []string) error {
	act := args[0]

	var payload any
	if actData != "" {
		if err := json.Unmarshal([]byte(actData), &payload); err != nil {
			return fmt.Errorf("invalid --data: %w", err)
		}
	}

	return withEnv(func(env *appEnv) error {
		sess := env.state.Session
		out := cmd.OutOrStdout()

		cleared := make(chan state.SessionData, 1)
		cancel := sess.Subscribe(func(d state.SessionData) {
			if d.Act == "" {
				select {
				case cleared <- d:
				default:
				}
			}
		})
		defer cancel()

		sess.Dispatch(act, payload)
		printSession(out, "Dispatched", sess.Get())

		if actNotify {
			if err := notification.ActDispatched(act); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf("notification failed: %v", err)))
			}
		}

		if actNoWait {
			if sess.Pending() {
				fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Clear scheduled in %s; not waiting.", sess.ClearDelay())))
			}
			return nil
		}

		timeout := sess.ClearDelay() + time.Second
		select {
		case d := <-cleared:
			printSession(out, fmt.Sprintf("Cleared after %s", sess.ClearDelay()), d)
		case <-time.After(timeout):
			return fmt.Errorf("action was not cleared within %s", timeout)
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
		return nil
	})
}

func printSession(w io.Writer, title string, d state.SessionData) {
	data := ""
	if d.ActData != nil && d.ActData != "" {
		if raw, err := json.Marshal(d.ActData); err == nil {
			data = string(raw)
		}
	}
	fmt.Fprint(w, ui.KeyValues(title, []ui.KV{
		{Key: "act", Value: d.Act},
		{Key: "act data", Value: data},
		{Key: "local", Value: d.Local},
		{Key: "loading", Value: formatBool(d.IsLoader)},
	}))
}
