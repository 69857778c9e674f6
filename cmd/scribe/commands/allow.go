package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/core/domain"
)

func (c *CLI) newAllowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allow <source> <target>",
		Short: "Let a component commit to a target without confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := c.openFile(cmd, args[1])
			if err != nil {
				kind, kerr := kindOrWidget(cmd)
				if kerr != nil {
					return kerr
				}
				target = domain.NewPath(kind, args[1])
			}
			if err := c.app.RememberWritePermission(args[0], target); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s may now commit to %s\n", args[0], target)
			return nil
		},
	}
}
