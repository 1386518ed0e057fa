package sources

import (
	"context"
	"os"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/logging"
)

// File reads a document from the local filesystem.
type File struct {
	id   ID
	path string
}

// NewFile creates a file source.
func NewFile(id ID, path string) *File {
	return &File{id: id, path: path}
}

// ID returns the source role.
func (f *File) ID() ID { return f.id }

// Path returns the file path.
func (f *File) Path() string { return f.path }

// String describes the source.
func (f *File) String() string { return f.path }

// Load reads the whole file.
func (f *File) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}
	logging.FromContext(ctx).Debug().
		Str("path", f.path).
		Int("bytes", len(data)).
		Msg("Read document")
	return data, nil
}
