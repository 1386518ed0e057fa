package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"io"

	"github.com/agentstation/tallycheck/pkg/constants"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/logging"
)

// ZipMember extracts one named file from a zip archive loaded by another
// source.
type ZipMember struct {
	id      ID
	archive Source
	member  string
}

// NewZipMember creates a source for member inside archive.
func NewZipMember(id ID, archive Source, member string) *ZipMember {
	return &ZipMember{id: id, archive: archive, member: member}
}

// ID returns the source role.
func (z *ZipMember) ID() ID { return z.id }

// Member returns the member path inside the archive.
func (z *ZipMember) Member() string { return z.member }

// String describes the source.
func (z *ZipMember) String() string { return z.archive.String() + "!" + z.member }

// Load loads the archive and returns the member's contents.
func (z *ZipMember) Load(ctx context.Context) ([]byte, error) {
	data, err := z.archive.Load(ctx)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapParse("zip", z.archive.String(), err)
	}

	f, err := zr.Open(z.member)
	if err != nil {
		return nil, errors.WrapIO("open", z.String(), err)
	}
	defer func() { _ = f.Close() }()

	body, err := io.ReadAll(io.LimitReader(f, constants.MaxDocumentSize+1))
	if err != nil {
		return nil, errors.WrapIO("read", z.String(), err)
	}
	if len(body) > constants.MaxDocumentSize {
		return nil, errors.NewValidationError("archive_member", z.member, "member exceeds the document size limit")
	}

	logging.FromContext(ctx).Debug().
		Str("member", z.member).
		Int("bytes", len(body)).
		Msg("Extracted archive member")
	return body, nil
}

// Members lists the file names inside a zip archive.
func Members(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapParse("zip", "", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	return names, nil
}
