package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/ui/style"
)

func (c *CLI) newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit <name>",
		Short: "Commit a draft to the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			source, _ := cmd.Flags().GetString("source")
			extra, _ := cmd.Flags().GetInt64("extra")
			yes, _ := cmd.Flags().GetBool("yes")
			remember, _ := cmd.Flags().GetBool("remember")

			path, err := c.resolve(cmd, args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := c.app.CommitDraft(ctx, path, domain.CommitOptions{
				Force:           force,
				SourceComponent: source,
			})
			if err != nil {
				return err
			}

			select {
			case <-session.Ready():
				decision := domain.ConfirmDecision{ExtraStorageBytes: extra, RememberPermission: remember}
				if err := c.confirm(cmd, session, decision, yes); err != nil {
					_ = session.Cancel()
					return err
				}
			case <-session.Done():
			case <-ctx.Done():
				_ = session.Cancel()
				return ctx.Err()
			}

			res, err := session.Wait(ctx)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Re-read remote state even if the draft was prepared before")
	cmd.Flags().String("source", "", "Component asking for the commit, used for write permissions")
	cmd.Flags().Int64("extra", 0, "Extra storage to prepay, in bytes, from the offered menu")
	cmd.Flags().BoolP("yes", "y", false, "Confirm without asking")
	cmd.Flags().Bool("remember", false, "Let --source commit to this target without confirmation next time")
	return cmd
}

// confirm shows the prepared commit and submits it once the author agrees.
// Declining cancels the session.
func (c *CLI) confirm(cmd *cobra.Command, s *commit.Session, d domain.ConfirmDecision, yes bool) error {
	prepared, _ := s.Prepared()
	err := RenderSummary(cmd.OutOrStdout(), Summary{
		Prepared:     prepared,
		CostPerByte:  c.app.CostPerByte(),
		ExtraOptions: s.ExtraStorageOptions(),
	})
	if err != nil {
		return err
	}

	if !yes && !ask(cmd.InOrStdin(), cmd.OutOrStdout(), "Confirm commit? [y/N] ") {
		return s.Cancel()
	}
	return s.Confirm(d)
}

func ask(in io.Reader, out io.Writer, question string) bool {
	_, _ = io.WriteString(out, question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printResult(w io.Writer, res domain.CommitResult) {
	switch res.Outcome {
	case domain.OutcomeCommitted:
		_, _ = fmt.Fprintf(w, "%s Committed %s (tx %s), deposit %s\n",
			style.Check, res.Key, res.Transaction.Hash, domain.FormatNear(res.Deposit))
	case domain.OutcomeNothingToSave:
		_, _ = fmt.Fprintf(w, "%s Nothing to save, %s is up to date\n", style.Check, res.Key)
	case domain.OutcomeCancelled:
		_, _ = fmt.Fprintf(w, "%s Commit of %s cancelled\n", style.Cross, res.Key)
	default:
		_, _ = fmt.Fprintf(w, "%s Commit of %s ended: %s\n", style.Warning, res.Key, res.Outcome)
	}
}
