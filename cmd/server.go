package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/clipboard"
	"github.com/zhubert/chatstate/internal/state"
	"github.com/zhubert/chatstate/internal/ui"
)

var (
	serverJSON   bool
	serverReveal bool

	// Replaced in tests.
	writeClipboard = clipboard.WriteText
	readClipboard  = clipboard.ReadText
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Show or change the backend server settings",
}

var serverShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the server settings with secrets masked",
	Args:  cobra.NoArgs,
	RunE:  runServerShow,
}

var serverSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change server settings",
	Long:  `Merges the given fields into the stored server settings. Only flags that are passed are changed.`,
	Args:  cobra.NoArgs,
	RunE:  runServerSet,
}

var serverEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the server settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE:  runServerEdit,
}

var serverResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every server setting",
	Args:  cobra.NoArgs,
	RunE:  runServerReset,
}

var serverCopyKeyCmd = &cobra.Command{
	Use:   "copy-key",
	Short: "Copy the API key to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runServerCopyKey,
}

var serverPasteKeyCmd = &cobra.Command{
	Use:   "paste-key",
	Short: "Set the API key from the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runServerPasteKey,
}

func init() {
	serverShowCmd.Flags().BoolVar(&serverJSON, "json", false, "Print the stored JSON record")
	serverShowCmd.Flags().BoolVar(&serverReveal, "reveal", false, "Show secrets unmasked")

	f := serverSetCmd.Flags()
	f.String("api-key", "", "OpenAI API key")
	f.String("base-url", "", "OpenAI API base URL")
	f.String("mj-server", "", "Midjourney proxy server")
	f.String("mj-secret", "", "Midjourney API secret")
	f.String("uploader-url", "", "Upload endpoint")
	f.Bool("cdn-wsrv", false, "Proxy images through wsrv.nl")

	serverCmd.AddCommand(serverShowCmd)
	serverCmd.AddCommand(serverSetCmd)
	serverCmd.AddCommand(serverEditCmd)
	serverCmd.AddCommand(serverResetCmd)
	serverCmd.AddCommand(serverCopyKeyCmd)
	serverCmd.AddCommand(serverPasteKeyCmd)
	rootCmd.AddCommand(serverCmd)
}

func serverPatchFromFlags(cmd *cobra.Command) state.ServerConfigPatch {
	return state.ServerConfigPatch{
		APIKey:      changedString(cmd, "api-key"),
		APIBaseURL:  changedString(cmd, "base-url"),
		MJServer:    changedString(cmd, "mj-server"),
		MJAPISecret: changedString(cmd, "mj-secret"),
		UploaderURL: changedString(cmd, "uploader-url"),
		MJCDNWsrv:   changedBool(cmd, "cdn-wsrv"),
	}
}

func runServerShow(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		d := env.state.ServerConfig.Redacted()
		if serverReveal {
			d = env.state.ServerConfig.Get()
		}
		if serverJSON {
			return printJSON(cmd.OutOrStdout(), d)
		}
		printServerConfig(cmd.OutOrStdout(), d)
		return nil
	})
}

func runServerSet(cmd *cobra.Command, args []string) error {
	p := serverPatchFromFlags(cmd)
	if p.IsEmpty() {
		return fmt.Errorf("nothing to change; pass at least one field flag (see --help)")
	}

	return withEnv(func(env *appEnv) error {
		if err := env.state.ServerConfig.Set(p); err != nil {
			return fmt.Errorf("error saving server config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success("server config updated"))
		printServerConfig(out, env.state.ServerConfig.Redacted())
		return nil
	})
}

func runServerReset(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		if err := env.state.ServerConfig.Reset(); err != nil {
			return fmt.Errorf("error resetting server config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("server config cleared"))
		return nil
	})
}

func runServerCopyKey(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		key := env.state.ServerConfig.Get().APIKey
		if key == "" {
			return fmt.Errorf("no API key is set")
		}
		if err := writeClipboard(key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("API key copied to clipboard"))
		return nil
	})
}

func runServerPasteKey(cmd *cobra.Command, args []string) error {
	text, err := readClipboard()
	if err != nil {
		return err
	}
	key := strings.TrimSpace(text)
	if key == "" {
		return fmt.Errorf("clipboard is empty")
	}

	return withEnv(func(env *appEnv) error {
		if err := env.state.ServerConfig.Set(state.ServerConfigPatch{APIKey: &key}); err != nil {
			return fmt.Errorf("error saving server config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("API key set to "+state.MaskSecret(key)))
		return nil
	})
}

// serverFormValues are the fields bound to the edit form.
type serverFormValues struct {
	APIKey      string
	APIBaseURL  string
	MJServer    string
	MJAPISecret string
	UploaderURL string
	MJCDNWsrv   bool
}

func serverFormValuesFrom(d state.ServerConfigData) serverFormValues {
	return serverFormValues(d)
}

// serverFormPatch returns a patch holding only the fields the form changed.
func serverFormPatch(before state.ServerConfigData, v serverFormValues) state.ServerConfigPatch {
	var p state.ServerConfigPatch
	if v.APIKey != before.APIKey {
		p.APIKey = state.Ptr(v.APIKey)
	}
	if v.APIBaseURL != before.APIBaseURL {
		p.APIBaseURL = state.Ptr(v.APIBaseURL)
	}
	if v.MJServer != before.MJServer {
		p.MJServer = state.Ptr(v.MJServer)
	}
	if v.MJAPISecret != before.MJAPISecret {
		p.MJAPISecret = state.Ptr(v.MJAPISecret)
	}
	if v.UploaderURL != before.UploaderURL {
		p.UploaderURL = state.Ptr(v.UploaderURL)
	}
	if v.MJCDNWsrv != before.MJCDNWsrv {
		p.MJCDNWsrv = state.Ptr(v.MJCDNWsrv)
	}
	return p
}

func newServerForm(v *serverFormValues) *huh.Form {
	openai := huh.NewGroup(
		huh.NewInput().
			Title("API key").
			Description("OPENAI_API_KEY").
			EchoMode(huh.EchoModePassword).
			Value(&v.APIKey),
		huh.NewInput().
			Title("API base URL").
			Placeholder("https://api.openai.com").
			Value(&v.APIBaseURL),
	).Title("OpenAI")

	mj := huh.NewGroup(
		huh.NewInput().
			Title("Midjourney server").
			Value(&v.MJServer),
		huh.NewInput().
			Title("Midjourney secret").
			EchoMode(huh.EchoModePassword).
			Value(&v.MJAPISecret),
		huh.NewInput().
			Title("Uploader URL").
			Value(&v.UploaderURL),
		huh.NewConfirm().
			Title("Proxy images through wsrv.nl?").
			Value(&v.MJCDNWsrv),
	).Title("Midjourney")

	return huh.NewForm(openai, mj).
		WithTheme(ui.FormTheme()).
		WithLayout(huh.LayoutStack)
}

func runServerEdit(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		before := env.state.ServerConfig.Get()
		values := serverFormValuesFrom(before)

		form := newServerForm(&values).
			WithProgramOptions(tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
		if err := form.RunWithContext(cmd.Context()); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			return fmt.Errorf("error running form: %w", err)
		}

		p := serverFormPatch(before, values)
		out := cmd.OutOrStdout()
		if p.IsEmpty() {
			fmt.Fprintln(out, "No changes.")
			return nil
		}
		if err := env.state.ServerConfig.Set(p); err != nil {
			return fmt.Errorf("error saving server config: %w", err)
		}
		fmt.Fprintln(out, ui.Success("server config updated"))
		printServerConfig(out, env.state.ServerConfig.Redacted())
		return nil
	})
}

func printServerConfig(w io.Writer, d state.ServerConfigData) {
	fmt.Fprint(w, ui.KeyValues("Server", []ui.KV{
		{Key: "api key", Value: d.APIKey},
		{Key: "api base url", Value: d.APIBaseURL},
		{Key: "mj server", Value: d.MJServer},
		{Key: "mj secret", Value: d.MJAPISecret},
		{Key: "uploader url", Value: d.UploaderURL},
		{Key: "cdn wsrv", Value: formatBool(d.MJCDNWsrv)},
	}))
}
