package main

import (
	"strings"

	"github.com/samvad-hq/docrelay/pkg/payloads"
	"github.com/spf13/cobra"
)

func newChatCmd(c *cli) *cobra.Command {
	var (
		model  string
		system string
	)

	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the chat-completion endpoint one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				model = c.v.GetString("chat_model")
			}
			req := payloads.NewChatRequest(model, system, strings.Join(args, " "))
			return c.app.Chat(cmd.Context(), req)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "chat model (default from config)")
	cmd.Flags().StringVar(&system, "system", payloads.DefaultSystemPrompt, "system prompt; empty to omit")
	return cmd
}
