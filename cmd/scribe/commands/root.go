// Package commands implements the CLI commands for scribe.
package commands

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"
	"go.trai.ch/scribe/internal/build"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/zerr"
)

// Global flag names. cmd/scribe reads --config and --json before the
// components are built; they are declared here so cobra accepts them.
const (
	FlagConfig = "config"
	FlagJSON   = "json"
	FlagKind   = "kind"
)

// CLI represents the command line interface for scribe.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Start(ctx context.Context) error

	OpenOrCreateDraft(ctx context.Context, path domain.LogicalPath, initial *domain.DraftValue) (domain.DraftValue, error)
	UpdateDraft(path domain.LogicalPath, value domain.DraftValue) error
	Draft(ctx context.Context, path domain.LogicalPath) (domain.DraftValue, drafts.Source, error)
	ListOpenFiles() []domain.LogicalPath
	ActiveFile() (domain.LogicalPath, bool)
	Find(name string, kind domain.ArtifactKind) (domain.LogicalPath, bool)

	CreateDraft(ctx context.Context, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error)
	OpenRemote(ctx context.Context, src string, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error)
	RenameDraft(ctx context.Context, path domain.LogicalPath, newName string) (domain.LogicalPath, error)
	CloseDraft(ctx context.Context, path domain.LogicalPath) (domain.LogicalPath, error)
	WatchDraft(ctx context.Context, path domain.LogicalPath, file string, onChange func(domain.DraftValue)) error

	CommitDraft(ctx context.Context, path domain.LogicalPath, opts domain.CommitOptions) (*commit.Session, error)
	CostPerByte() *big.Int
	RememberWritePermission(source string, target domain.LogicalPath) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Keep component drafts and commit them to the registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String(FlagConfig, "", "Path to scribe.yaml")
	flags.Bool(FlagJSON, false, "Write logs as JSON")
	flags.String(FlagKind, "", "Artifact kind: widget or module")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	// Drafts are restored lazily so that version and help stay side-effect free.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[annotationNoSession] != "" {
			return nil
		}
		return c.app.Start(cmd.Context())
	}

	rootCmd.AddCommand(c.newNewCmd())
	rootCmd.AddCommand(c.newOpenCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newEditCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newRenameCmd())
	rootCmd.AddCommand(c.newCloseCmd())
	rootCmd.AddCommand(c.newCommitCmd())
	rootCmd.AddCommand(c.newAllowCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

const annotationNoSession = "scribe/no-session"

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream confirmation prompts read from. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// kindFlag returns the --kind flag, or "" when it is unset.
func kindFlag(cmd *cobra.Command) (domain.ArtifactKind, error) {
	raw, _ := cmd.Flags().GetString(FlagKind)
	if raw == "" {
		return "", nil
	}
	return domain.ParseKind(raw)
}

// kindOrWidget returns the --kind flag, defaulting to widgets.
func kindOrWidget(cmd *cobra.Command) (domain.ArtifactKind, error) {
	kind, err := kindFlag(cmd)
	if err != nil || kind != "" {
		return kind, err
	}
	return domain.KindWidget, nil
}

// openFile resolves name against the open-file set.
func (c *CLI) openFile(cmd *cobra.Command, name string) (domain.LogicalPath, error) {
	kind, err := kindFlag(cmd)
	if err != nil {
		return domain.LogicalPath{}, err
	}
	path, ok := c.app.Find(name, kind)
	if !ok {
		return domain.LogicalPath{}, zerr.With(domain.ErrPathNotOpen, "name", name)
	}
	return path, nil
}

// resolve returns the open file called name, or opens it when it is not
// open yet. An empty name selects the active file.
func (c *CLI) resolve(cmd *cobra.Command, name string) (domain.LogicalPath, error) {
	if name == "" {
		path, ok := c.app.ActiveFile()
		if !ok {
			return domain.LogicalPath{}, domain.ErrPathNotOpen
		}
		return path, nil
	}
	if path, err := c.openFile(cmd, name); err == nil {
		return path, nil
	}

	kind, err := kindOrWidget(cmd)
	if err != nil {
		return domain.LogicalPath{}, err
	}
	path := domain.NewPath(kind, name)
	if _, err := c.app.OpenOrCreateDraft(cmd.Context(), path, nil); err != nil {
		return domain.LogicalPath{}, err
	}
	return path, nil
}
