package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewChatCommand(globalOptions *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the writing assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := globalOptions.client().Chat(commandContext(cmd), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
}
