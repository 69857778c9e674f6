package commands_test

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/cmd/scribe/commands"
	"go.trai.ch/scribe/internal/adapters/telemetry"
	"go.trai.ch/scribe/internal/build"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.uber.org/mock/gomock"
)

type mockApp struct {
	started bool
	files   []domain.LogicalPath
	active  *domain.LogicalPath
	values  map[string]domain.DraftValue

	createFunc   func(ctx context.Context, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error)
	remoteFunc   func(ctx context.Context, src string, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error)
	renameFunc   func(ctx context.Context, path domain.LogicalPath, newName string) (domain.LogicalPath, error)
	closeFunc    func(ctx context.Context, path domain.LogicalPath) (domain.LogicalPath, error)
	watchFunc    func(ctx context.Context, path domain.LogicalPath, file string, onChange func(domain.DraftValue)) error
	commitFunc   func(ctx context.Context, path domain.LogicalPath, opts domain.CommitOptions) (*commit.Session, error)
	rememberFunc func(source string, target domain.LogicalPath) error
}

func newMockApp(files ...domain.LogicalPath) *mockApp {
	m := &mockApp{files: files, values: map[string]domain.DraftValue{}}
	if len(files) > 0 {
		last := files[len(files)-1]
		m.active = &last
	}
	return m
}

func (m *mockApp) Start(context.Context) error {
	m.started = true
	return nil
}

func (m *mockApp) OpenOrCreateDraft(_ context.Context, path domain.LogicalPath, initial *domain.DraftValue) (domain.DraftValue, error) {
	if _, ok := m.Find(path.Name, path.Kind); !ok {
		m.files = append(m.files, path)
	}
	m.active = &path
	if v, ok := m.values[path.Identity()]; ok {
		return v, nil
	}
	if initial != nil {
		m.values[path.Identity()] = *initial
		return *initial, nil
	}
	return domain.DefaultDraft(path.Kind), nil
}

func (m *mockApp) UpdateDraft(path domain.LogicalPath, value domain.DraftValue) error {
	m.values[path.Identity()] = value
	return nil
}

func (m *mockApp) Draft(_ context.Context, path domain.LogicalPath) (domain.DraftValue, drafts.Source, error) {
	if v, ok := m.values[path.Identity()]; ok {
		return v, drafts.SourceLocal, nil
	}
	return domain.DefaultDraft(path.Kind), drafts.SourceDefault, nil
}

func (m *mockApp) ListOpenFiles() []domain.LogicalPath { return m.files }

func (m *mockApp) ActiveFile() (domain.LogicalPath, bool) {
	if m.active == nil {
		return domain.LogicalPath{}, false
	}
	return *m.active, true
}

func (m *mockApp) Find(name string, kind domain.ArtifactKind) (domain.LogicalPath, bool) {
	for _, f := range m.files {
		if f.Name == name && (kind == "" || f.Kind == kind) {
			return f, true
		}
	}
	return domain.LogicalPath{}, false
}

func (m *mockApp) CreateDraft(ctx context.Context, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, kind)
	}
	return domain.DraftPath(kind, 0), domain.DefaultDraft(kind), nil
}

func (m *mockApp) OpenRemote(ctx context.Context, src string, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
	if m.remoteFunc != nil {
		return m.remoteFunc(ctx, src, kind)
	}
	return domain.PathFromSource(kind, src), domain.DraftValue{}, nil
}

func (m *mockApp) RenameDraft(ctx context.Context, path domain.LogicalPath, newName string) (domain.LogicalPath, error) {
	if m.renameFunc != nil {
		return m.renameFunc(ctx, path, newName)
	}
	return domain.NewPath(path.Kind, newName), nil
}

func (m *mockApp) CloseDraft(ctx context.Context, path domain.LogicalPath) (domain.LogicalPath, error) {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, path)
	}
	return domain.DraftPath(domain.KindWidget, 0), nil
}

func (m *mockApp) WatchDraft(ctx context.Context, path domain.LogicalPath, file string, onChange func(domain.DraftValue)) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, path, file, onChange)
	}
	return nil
}

func (m *mockApp) CommitDraft(ctx context.Context, path domain.LogicalPath, opts domain.CommitOptions) (*commit.Session, error) {
	if m.commitFunc != nil {
		return m.commitFunc(ctx, path, opts)
	}
	return nil, domain.ErrNotAuthenticated
}

func (m *mockApp) CostPerByte() *big.Int { return domain.DefaultCostPerByte() }

func (m *mockApp) RememberWritePermission(source string, target domain.LogicalPath) error {
	if m.rememberFunc != nil {
		return m.rememberFunc(source, target)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	cli.SetArgs(args)
	err := cli.Execute(t.Context())
	return out.String(), err
}

func TestCommands_New(t *testing.T) {
	var gotKind domain.ArtifactKind
	m := newMockApp()
	m.createFunc = func(_ context.Context, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
		gotKind = kind
		return domain.DraftPath(kind, 3), domain.DraftValue{}, nil
	}

	out, err := execute(t, m, "new", "--kind", "module")
	require.NoError(t, err)
	assert.Equal(t, domain.KindModule, gotKind)
	assert.Equal(t, "Opened module/Draft-3\n", out)
	assert.True(t, m.started)

	_, err = execute(t, m, "new", "--kind", "gadget")
	require.ErrorContains(t, err, domain.ErrUnknownKind.Error())
}

func TestCommands_Open(t *testing.T) {
	var gotSrc string
	m := newMockApp()
	m.remoteFunc = func(_ context.Context, src string, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
		gotSrc = src
		return domain.PathFromSource(kind, src), domain.DraftValue{}, nil
	}

	out, err := execute(t, m, "open", "bob.near/widget/Feed")
	require.NoError(t, err)
	assert.Equal(t, "bob.near/widget/Feed", gotSrc)
	assert.Equal(t, "Opened widget/Feed\n", out)
}

func TestCommands_Show(t *testing.T) {
	counter := domain.NewPath(domain.KindWidget, "Counter")
	m := newMockApp(domain.DraftPath(domain.KindWidget, 0), counter)
	m.values[counter.Identity()] = domain.DraftValue{Code: "return 1;"}

	t.Run("active file by default", func(t *testing.T) {
		out, err := execute(t, m, "show")
		require.NoError(t, err)
		assert.Equal(t, "return 1;\n", out)
	})

	t.Run("opens a file that is not open yet", func(t *testing.T) {
		out, err := execute(t, m, "show", "Feed", "--kind", "module")
		require.NoError(t, err)
		assert.Equal(t, "\n", out)
		_, ok := m.Find("Feed", domain.KindModule)
		assert.True(t, ok)
	})
}

func TestCommands_Edit(t *testing.T) {
	counter := domain.NewPath(domain.KindWidget, "Counter")

	t.Run("code keeps metadata", func(t *testing.T) {
		m := newMockApp(counter)
		m.values[counter.Identity()] = domain.DraftValue{Code: "old", Metadata: domain.Tree{"name": "C"}}

		out, err := execute(t, m, "edit", "Counter", "--code", "return 2;")
		require.NoError(t, err)
		assert.Equal(t, "Saved widget/Counter (9 bytes)\n", out)
		assert.Equal(t, domain.DraftValue{Code: "return 2;", Metadata: domain.Tree{"name": "C"}}, m.values[counter.Identity()])
	})

	t.Run("file", func(t *testing.T) {
		m := newMockApp(counter)
		file := filepath.Join(t.TempDir(), "counter.jsx")
		require.NoError(t, os.WriteFile(file, []byte("return 3;"), 0o600))

		_, err := execute(t, m, "edit", "Counter", "--file", file)
		require.NoError(t, err)
		assert.Equal(t, "return 3;", m.values[counter.Identity()].Code)
	})

	t.Run("watch mirrors the file", func(t *testing.T) {
		m := newMockApp(counter)
		file := filepath.Join(t.TempDir(), "counter.jsx")
		require.NoError(t, os.WriteFile(file, []byte("return 4;"), 0o600))

		var watched string
		m.watchFunc = func(_ context.Context, _ domain.LogicalPath, f string, onChange func(domain.DraftValue)) error {
			watched = f
			onChange(domain.DraftValue{Code: "return 5;"})
			return nil
		}

		out, err := execute(t, m, "edit", "Counter", "--file", file, "--watch")
		require.NoError(t, err)
		assert.Equal(t, file, watched)
		assert.Contains(t, out, "Saved widget/Counter (9 bytes)\nWatching ")
		assert.True(t, strings.HasSuffix(out, "Saved widget/Counter (9 bytes)\n"))
	})

	t.Run("needs a source", func(t *testing.T) {
		_, err := execute(t, newMockApp(counter), "edit", "Counter")
		require.Error(t, err)
	})

	t.Run("watch needs a file", func(t *testing.T) {
		_, err := execute(t, newMockApp(counter), "edit", "Counter", "--code", "x", "--watch")
		require.ErrorContains(t, err, "--watch requires --file")
	})
}

func TestCommands_List(t *testing.T) {
	m := newMockApp(domain.DraftPath(domain.KindWidget, 0), domain.NewPath(domain.KindModule, "feed"))

	out, err := execute(t, m, "ls")
	require.NoError(t, err)
	assert.Equal(t, "○ widget/Draft-0 (unnamed)\n● module/feed\n", out)
}

func TestCommands_RenameAndClose(t *testing.T) {
	counter := domain.NewPath(domain.KindWidget, "Counter")

	out, err := execute(t, newMockApp(counter), "rename", "Counter", "Clicker")
	require.NoError(t, err)
	assert.Equal(t, "Renamed widget/Counter → widget/Clicker\n", out)

	var closed domain.LogicalPath
	m := newMockApp(counter)
	m.closeFunc = func(_ context.Context, p domain.LogicalPath) (domain.LogicalPath, error) {
		closed = p
		return domain.DraftPath(domain.KindWidget, 0), nil
	}
	out, err = execute(t, m, "close", "Counter")
	require.NoError(t, err)
	assert.Equal(t, counter, closed)
	assert.Equal(t, "Closed widget/Counter, active: widget/Draft-0\n", out)

	_, err = execute(t, newMockApp(), "close", "Missing")
	require.ErrorContains(t, err, domain.ErrPathNotOpen.Error())
	_, err = execute(t, newMockApp(), "rename", "Missing", "X")
	require.ErrorContains(t, err, domain.ErrPathNotOpen.Error())
}

func TestCommands_Allow(t *testing.T) {
	var (
		gotSource string
		gotTarget domain.LogicalPath
	)
	m := newMockApp()
	m.rememberFunc = func(source string, target domain.LogicalPath) error {
		gotSource, gotTarget = source, target
		return nil
	}

	out, err := execute(t, m, "allow", "feed.near/widget/Composer", "Post")
	require.NoError(t, err)
	assert.Equal(t, "feed.near/widget/Composer", gotSource)
	assert.Equal(t, domain.NewPath(domain.KindWidget, "Post"), gotTarget)
	assert.Equal(t, "feed.near/widget/Composer may now commit to widget/Post\n", out)
}

// newExecutor returns an executor for alice.near against an empty remote.
func newExecutor(t *testing.T) (*commit.Executor, *mocks.MockTransactionSubmitter) {
	t.Helper()
	ctrl := gomock.NewController(t)

	remote := mocks.NewMockRemoteReader(ctrl)
	remote.EXPECT().FetchValue(gomock.Any(), gomock.Any()).Return(nil, false, nil).AnyTimes()
	remote.EXPECT().FetchBalance(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	ident := mocks.NewMockIdentityProvider(ctrl)
	ident.EXPECT().AccountID().Return("alice.near", true).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	m := mocks.NewMockCommitMetrics(ctrl)
	m.EXPECT().SessionStarted().AnyTimes()
	m.EXPECT().SessionFinished(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().PayloadPrepared(gomock.Any()).AnyTimes()
	m.EXPECT().DepositSubmitted(gomock.Any()).AnyTimes()

	submitter := mocks.NewMockTransactionSubmitter(ctrl)
	exec := commit.NewExecutor(
		commit.NewPreparer(remote, domain.DefaultCostPerByte()),
		submitter,
		ident,
		drafts.NewStore(nil, log),
		commit.NewPermissionSet(),
		telemetry.NewNoOpTracer(),
		m,
		log,
	)
	return exec, submitter
}

func commitApp(exec *commit.Executor, opts *domain.CommitOptions) *mockApp {
	x := domain.NewPath(domain.KindWidget, "x")
	m := newMockApp(x)
	m.values[x.Identity()] = domain.DraftValue{Code: "A"}
	m.commitFunc = func(ctx context.Context, path domain.LogicalPath, o domain.CommitOptions) (*commit.Session, error) {
		if opts != nil {
			*opts = o
		}
		return exec.RequestCommit(ctx, path, domain.WidgetValue{Code: m.values[path.Identity()].Code}, o)
	}
	return m
}

func TestCommands_Commit(t *testing.T) {
	t.Run("confirmed with --yes", func(t *testing.T) {
		exec, submitter := newExecutor(t)
		// {"alice.near":{"widget":{"x":{"":"A"}}}} is 40 bytes; 5000 extra.
		want := new(big.Int).Mul(big.NewInt(5040), domain.DefaultCostPerByte())
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Cond(func(d *big.Int) bool {
			return d.Cmp(want) == 0
		})).Return(domain.TransactionResult{Hash: "tx1"}, nil)

		var opts domain.CommitOptions
		out, err := execute(t, commitApp(exec, &opts), "commit", "x", "--yes", "--extra", "5000", "--source", "feed", "--force")
		require.NoError(t, err)
		assert.Equal(t, domain.CommitOptions{Force: true, SourceComponent: "feed"}, opts)
		assert.Contains(t, out, "Required storage: 40 bytes")
		assert.Contains(t, out, "✓ Committed alice.near/widget/x (tx tx1), deposit 0.0504 NEAR")
	})

	t.Run("confirmed at the prompt", func(t *testing.T) {
		exec, submitter := newExecutor(t)
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TransactionResult{Hash: "tx2"}, nil)

		cli := commands.New(commitApp(exec, nil))
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetInput(strings.NewReader("y\n"))
		cli.SetArgs([]string{"commit", "x"})

		require.NoError(t, cli.Execute(t.Context()))
		assert.Contains(t, out.String(), "Confirm commit? [y/N] ")
		assert.Contains(t, out.String(), "Committed alice.near/widget/x (tx tx2)")
	})

	t.Run("declined at the prompt", func(t *testing.T) {
		exec, _ := newExecutor(t)

		cli := commands.New(commitApp(exec, nil))
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetInput(strings.NewReader("n\n"))
		cli.SetArgs([]string{"commit", "x"})

		require.NoError(t, cli.Execute(t.Context()))
		assert.Contains(t, out.String(), "✗ Commit of alice.near/widget/x cancelled")
	})

	t.Run("extra storage outside the menu", func(t *testing.T) {
		exec, _ := newExecutor(t)
		_, err := execute(t, commitApp(exec, nil), "commit", "x", "--yes", "--extra", "7")
		require.ErrorContains(t, err, domain.ErrInvalidExtraStorage.Error())
	})

	t.Run("remembered permission skips confirmation", func(t *testing.T) {
		exec, submitter := newExecutor(t)
		exec.RememberWritePermission("feed", domain.RemoteKey{Account: "alice.near", Kind: domain.KindWidget, Name: "x"})
		submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TransactionResult{Hash: "tx3"}, nil)

		out, err := execute(t, commitApp(exec, nil), "commit", "x", "--source", "feed")
		require.NoError(t, err)
		assert.NotContains(t, out, "Required storage")
		assert.Contains(t, out, "Committed alice.near/widget/x (tx tx3)")
	})

	t.Run("app errors are returned", func(t *testing.T) {
		m := newMockApp(domain.NewPath(domain.KindWidget, "x"))
		_, err := execute(t, m, "commit", "x")
		require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestCommands_Version(t *testing.T) {
	m := newMockApp()
	out, err := execute(t, m, "version")
	require.NoError(t, err)

	assert.Contains(t, out, build.Version)
	assert.False(t, m.started, "version does not restore drafts")
}
