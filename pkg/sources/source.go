// Package sources loads the raw bytes of the documents being audited. A
// source knows where its document lives (a local file, a URL, a member of a
// zip archive) and nothing about its format.
//
// Example usage:
//
//	official := sources.NewZipMember(sources.OfficialID,
//	    sources.NewHTTP(sources.OfficialID, archiveURL, nil),
//	    "Reports/2009 Burlington Mayor Final Piles Report.txt")
//	data, err := official.Load(ctx)
package sources

import (
	"context"
	"slices"
)

// ID represents the role of a data source in an audit.
type ID string

// String returns the string representation of a source id.
func (id ID) String() string {
	return string(id)
}

// Source roles.
const (
	// OfficialID is the final piles report published by the election office.
	OfficialID ID = "official"
	// CommunityID is the Electowidget data republished on the wiki.
	CommunityID ID = "community"
)

// IDs returns all source roles.
func IDs() []ID {
	return []ID{OfficialID, CommunityID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source represents one document to audit.
type Source interface {
	// ID returns the role of this source
	ID() ID

	// Load returns the document bytes. Context bounds network access.
	Load(ctx context.Context) ([]byte, error)

	// String describes where the document comes from
	String() string
}
