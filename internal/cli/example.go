package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/ProtoLens/internal/session"
)

func newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print the built-in example protocol",
		Long: `Print the example protocol the editor starts with. Handy as a starting
point:

  protolens example > protocol.py`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), session.DefaultProtocol)
		},
	}
}
