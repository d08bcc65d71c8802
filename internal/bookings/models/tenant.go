package models

import id "venuebook/pkg/domain"

// TenantContext identifies which company/site/subsite is selected.
// It is owned by the tenant-selection collaborator; the bookings core only reads it.
type TenantContext struct {
	CompanyID id.CompanyID `json:"companyId"`
	SiteID    id.SiteID    `json:"siteId,omitempty"`
	SubsiteID id.SubsiteID `json:"subsiteId,omitempty"`
}

// HasCompany reports whether a company is selected.
func (t TenantContext) HasCompany() bool { return !t.CompanyID.IsNil() }

// HasSite reports whether both a company and a site are selected.
func (t TenantContext) HasSite() bool { return t.HasCompany() && !t.SiteID.IsNil() }
