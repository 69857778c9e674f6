package ports

import "context"

// SourceWatcher mirrors a local source file into the editor.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type SourceWatcher interface {
	// Watch calls onChange with the file content after every settled write,
	// until ctx is cancelled.
	Watch(ctx context.Context, file string, onChange func(content []byte)) error
}
