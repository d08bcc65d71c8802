// Package paths maps a tenant selection onto remote store locations.
package paths

import (
	"venuebook/internal/bookings/models"
	"venuebook/internal/remote"
)

// Segment names the sub-collection of an entity kind under a base path.
type Segment string

const (
	Bookings         Segment = "bookings"
	Tables           Segment = "tables"
	BookingTypes     Segment = "bookingTypes"
	Statuses         Segment = "statuses"
	Customers        Segment = "customers"
	Waitlist         Segment = "waitlist"
	FloorPlans       Segment = "floorPlans"
	Tags             Segment = "tags"
	PreorderProfiles Segment = "preorderProfiles"
	Settings         Segment = "settings"
)

// dataSuffix is appended to a site or subsite node to reach its bookings data.
const dataSuffix = "data/bookings"

// Resolve returns candidate base paths, most specific first. Callers read
// them in order and fall back to the next one when a read comes back empty.
//
// A subsite cannot be addressed without its parent site, so a selection
// with a subsite but no site resolves to nothing.
func Resolve(t models.TenantContext) []string {
	if !t.HasSite() {
		return nil
	}
	site := SitePath(t)
	if t.SubsiteID.IsNil() {
		return []string{site}
	}
	return []string{SubsitePath(t), site}
}

// Primary returns the most specific candidate, or "" when nothing resolves.
// Writes always target the primary path.
func Primary(t models.TenantContext) string {
	candidates := Resolve(t)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// SitePath is the base path of the selected site.
func SitePath(t models.TenantContext) string {
	return remote.Join("companies", t.CompanyID.String(), "sites", t.SiteID.String(), dataSuffix)
}

// SubsitePath is the base path of the selected subsite.
func SubsitePath(t models.TenantContext) string {
	return remote.Join("companies", t.CompanyID.String(), "sites", t.SiteID.String(),
		"subsites", t.SubsiteID.String(), dataSuffix)
}

// Collection is the location of an entity kind under base.
func Collection(base string, seg Segment) string {
	return remote.Join(base, string(seg))
}

// Item is the location of one entity under base.
func Item(base string, seg Segment, id string) string {
	return remote.Join(base, string(seg), id)
}
