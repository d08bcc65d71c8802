// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	dErrors "venuebook/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a SiteID where a CompanyID is expected.
// Values are remote-store keys, so they are opaque strings rather than UUIDs.
type (
	CompanyID string
	SiteID    string
	SubsiteID string
)

// MaxKeyLength bounds identifiers used as path segments.
const MaxKeyLength = 128

// forbiddenKeyChars cannot appear in a path segment of the remote store.
const forbiddenKeyChars = "/.#$[]"

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseCompanyID(s string) (CompanyID, error) {
	k, err := parseKey(s, "company ID")
	return CompanyID(k), err
}

func ParseSiteID(s string) (SiteID, error) {
	k, err := parseKey(s, "site ID")
	return SiteID(k), err
}

func ParseSubsiteID(s string) (SubsiteID, error) {
	k, err := parseKey(s, "subsite ID")
	return SubsiteID(k), err
}

func (id CompanyID) String() string { return string(id) }
func (id SiteID) String() string    { return string(id) }
func (id SubsiteID) String() string { return string(id) }

func (id CompanyID) IsNil() bool { return id == "" }
func (id SiteID) IsNil() bool    { return id == "" }
func (id SubsiteID) IsNil() bool { return id == "" }

// ValidKey reports whether s can be used as a single path segment.
func ValidKey(s string) bool {
	_, err := parseKey(s, "key")
	return err == nil
}

// parseKey is the shared validation logic. Empty input is rejected here;
// optional levels (site, subsite) are represented by the zero value and never parsed.
func parseKey(s, label string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > MaxKeyLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	if strings.ContainsAny(s, forbiddenKeyChars) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return s, nil
}
