package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zhubert/chatstate/internal/state"
	"github.com/zhubert/chatstate/internal/ui"
)

var modelJSON bool

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show or change the chat model configuration",
}

var modelShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the model configuration",
	Args:  cobra.NoArgs,
	RunE:  runModelShow,
}

var modelSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change model configuration fields",
	Long: `Merges the given fields into the stored model configuration.
Only flags that are passed are changed.

Changing --model without choosing a persona clears the selected persona.`,
	Args: cobra.NoArgs,
	RunE: runModelSet,
}

var modelResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the model configuration defaults",
	Args:  cobra.NoArgs,
	RunE:  runModelReset,
}

func init() {
	modelShowCmd.Flags().BoolVar(&modelJSON, "json", false, "Print the stored JSON record")

	f := modelSetCmd.Flags()
	f.String("model", "", "Model id")
	f.String("label", "", "Display label for the model")
	f.Int("max-tokens", 0, "Maximum tokens per reply")
	f.String("user-model", "", "Custom model name, used instead of --model when set")
	f.Int("talk-count", 0, "History messages sent with each request")
	f.String("system", "", "System message")
	f.String("kid", "", "Knowledge base id")
	f.String("kname", "", "Knowledge base name")
	f.Float64("temperature", 0, "Sampling temperature")
	f.Float64("top-p", 0, "Nucleus sampling probability")
	f.Float64("frequency-penalty", 0, "Frequency penalty")
	f.Float64("presence-penalty", 0, "Presence penalty")
	f.String("voice", "", "Text-to-speech voice")
	f.Bool("knowledge-graph", false, "Enable the knowledge graph")
	f.Int64("uuid", 0, "Conversation uuid")

	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelSetCmd)
	modelCmd.AddCommand(modelResetCmd)
	rootCmd.AddCommand(modelCmd)
}

// modelPatchFromFlags builds a patch from the flags that were passed.
func modelPatchFromFlags(cmd *cobra.Command) state.ModelConfigPatch {
	return state.ModelConfigPatch{
		Model:                changedString(cmd, "model"),
		ModelLabel:           changedString(cmd, "label"),
		MaxTokens:            changedInt(cmd, "max-tokens"),
		UserModel:            changedString(cmd, "user-model"),
		TalkCount:            changedInt(cmd, "talk-count"),
		SystemMessage:        changedString(cmd, "system"),
		KID:                  changedString(cmd, "kid"),
		KName:                changedString(cmd, "kname"),
		Temperature:          changedFloat(cmd, "temperature"),
		TopP:                 changedFloat(cmd, "top-p"),
		FrequencyPenalty:     changedFloat(cmd, "frequency-penalty"),
		PresencePenalty:      changedFloat(cmd, "presence-penalty"),
		TTSVoice:             changedString(cmd, "voice"),
		EnableKnowledgeGraph: changedBool(cmd, "knowledge-graph"),
		UUID:                 changedInt64(cmd, "uuid"),
	}
}

func runModelShow(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		d := env.state.ModelConfig.Get()
		if modelJSON {
			return printJSON(cmd.OutOrStdout(), d)
		}
		printModelConfig(cmd.OutOrStdout(), d)
		return nil
	})
}

func runModelSet(cmd *cobra.Command, args []string) error {
	p := modelPatchFromFlags(cmd)
	if p.IsEmpty() {
		return fmt.Errorf("nothing to change; pass at least one field flag (see --help)")
	}

	return withEnv(func(env *appEnv) error {
		if err := env.state.ModelConfig.Set(p); err != nil {
			return fmt.Errorf("error saving model config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success("model config updated"))
		printModelConfig(out, env.state.ModelConfig.Get())
		return nil
	})
}

func runModelReset(cmd *cobra.Command, args []string) error {
	return withEnv(func(env *appEnv) error {
		if err := env.state.ModelConfig.Reset(); err != nil {
			return fmt.Errorf("error resetting model config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success("model config reset to defaults"))
		printModelConfig(out, env.state.ModelConfig.Get())
		return nil
	})
}

func printModelConfig(w io.Writer, d state.ModelConfigData) {
	persona := ""
	if d.Gpts != nil {
		persona = fmt.Sprintf("%s (%s)", d.Gpts.Name, d.Gpts.GID)
	}
	uuid := ""
	if d.UUID != nil {
		uuid = strconv.FormatInt(*d.UUID, 10)
	}

	fmt.Fprint(w, ui.KeyValues("Model", []ui.KV{
		{Key: "model", Value: d.Model},
		{Key: "label", Value: d.ModelLabel},
		{Key: "user model", Value: d.UserModel},
		{Key: "max tokens", Value: strconv.Itoa(d.MaxTokens)},
		{Key: "talk count", Value: strconv.Itoa(d.TalkCount)},
		{Key: "system", Value: ui.Truncate(d.SystemMessage, 60)},
		{Key: "temperature", Value: formatFloat(d.Temperature)},
		{Key: "top p", Value: formatFloat(d.TopP)},
		{Key: "frequency penalty", Value: formatFloat(d.FrequencyPenalty)},
		{Key: "presence penalty", Value: formatFloat(d.PresencePenalty)},
		{Key: "voice", Value: d.TTSVoice},
		{Key: "knowledge base", Value: d.KName},
		{Key: "knowledge graph", Value: formatBool(d.EnableKnowledgeGraph)},
		{Key: "persona", Value: persona},
		{Key: "uuid", Value: uuid},
	}))
}
