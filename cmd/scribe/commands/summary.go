package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/ui/style"
	"go.trai.ch/zerr"
)

// Summary is what the author sees before confirming a commit.
type Summary struct {
	Prepared     domain.PreparedCommit
	CostPerByte  *big.Int
	ExtraOptions []int64
}

// RenderSummary writes the payload, the required storage and deposit, and
// the extra storage menu to w.
func RenderSummary(w io.Writer, s Summary) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(style.Iris)
	label := r.NewStyle().Foreground(style.Slate)

	doc, err := json.MarshalIndent(s.Prepared.Payload, "  ", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	var b strings.Builder
	b.WriteString(title.Render("Commit "+s.Prepared.Key.String()) + "\n")
	b.WriteString("  " + string(doc) + "\n")
	if s.Prepared.FundedBytes > 0 {
		_, _ = fmt.Fprintf(&b, "%s %d bytes\n", label.Render("Funded storage:"), s.Prepared.FundedBytes)
	}
	_, _ = fmt.Fprintf(&b, "%s %d bytes\n", label.Render("Required storage:"), s.Prepared.RequiredBytes())
	_, _ = fmt.Fprintf(&b, "%s %s\n", label.Render("Required deposit:"), domain.FormatNear(s.Prepared.RequiredDeposit))

	if len(s.ExtraOptions) > 0 {
		b.WriteString(label.Render("Extra storage (--extra):") + "\n")
		for _, n := range s.ExtraOptions {
			deposit, err := domain.ExtraDeposit(n, s.ExtraOptions, s.CostPerByte)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(&b, "  %d bytes: %s\n", n, domain.FormatNear(deposit))
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}
