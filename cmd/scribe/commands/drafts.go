package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Open a fresh draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kindOrWidget(cmd)
			if err != nil {
				return err
			}
			path, _, err := c.app.CreateDraft(cmd.Context(), kind)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", path)
			return nil
		},
	}
}

func (c *CLI) newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <name|account/kind/name>",
		Short: "Open a committed artifact as a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindOrWidget(cmd)
			if err != nil {
				return err
			}
			path, _, err := c.app.OpenRemote(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", path)
			return nil
		},
	}
}

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print the current code of a draft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			path, err := c.resolve(cmd, name)
			if err != nil {
				return err
			}
			v, src, err := c.app.Draft(cmd.Context(), path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", path, src)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), v.Code)
			return nil
		},
	}
}

func (c *CLI) newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Replace the code of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			code, _ := cmd.Flags().GetString("code")
			watch, _ := cmd.Flags().GetBool("watch")
			if watch && file == "" {
				return zerr.New("--watch requires --file")
			}

			path, err := c.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			current, _, err := c.app.Draft(cmd.Context(), path)
			if err != nil {
				return err
			}

			if file != "" {
				data, err := os.ReadFile(file) //nolint:gosec // path is provided by the user
				if err != nil {
					return zerr.With(zerr.Wrap(err, "failed to read source file"), "path", file)
				}
				code = string(data)
			}
			current.Code = code
			if err := c.app.UpdateDraft(path, current); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Saved %s (%d bytes)\n", path, len(code))
			if !watch {
				return nil
			}

			_, _ = fmt.Fprintf(out, "Watching %s, press Ctrl+C to stop\n", file)
			return c.app.WatchDraft(cmd.Context(), path, file, func(v domain.DraftValue) {
				_, _ = fmt.Fprintf(out, "Saved %s (%d bytes)\n", path, len(v.Code))
			})
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read the code from a file")
	cmd.Flags().StringP("code", "c", "", "Use the given code")
	cmd.Flags().BoolP("watch", "w", false, "Keep mirroring --file into the draft")
	cmd.MarkFlagsMutuallyExclusive("file", "code")
	cmd.MarkFlagsOneRequired("file", "code")
	return cmd
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List open files",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := lipgloss.NewRenderer(cmd.OutOrStdout())
			activeStyle := r.NewStyle().Foreground(style.Iris).Bold(true)
			dimStyle := r.NewStyle().Foreground(style.Slate)

			active, hasActive := c.app.ActiveFile()
			for _, p := range c.app.ListOpenFiles() {
				line := style.Circle + " " + p.String()
				if hasActive && active.Same(p) {
					line = activeStyle.Render(style.Dot + " " + p.String())
				}
				if p.Unnamed {
					line += dimStyle.Render(" (unnamed)")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func (c *CLI) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename an open file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.openFile(cmd, args[0])
			if err != nil {
				return err
			}
			renamed, err := c.app.RenameDraft(cmd.Context(), path, args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s %s %s\n", path, style.Arrow, renamed)
			return nil
		},
	}
}

func (c *CLI) newCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <name>",
		Short: "Close an open file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.openFile(cmd, args[0])
			if err != nil {
				return err
			}
			active, err := c.app.CloseDraft(cmd.Context(), path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Closed %s, active: %s\n", path, active)
			return nil
		},
	}
}
