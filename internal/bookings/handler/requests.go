package handler

import (
	"strings"
	"time"

	"venuebook/internal/bookings/models"
	"venuebook/internal/bookings/stats"
	id "venuebook/pkg/domain"
	"venuebook/pkg/validation"
)

const dateLayout = "2006-01-02"

type SelectTenantRequest struct {
	CompanyID string `json:"companyId" validate:"max=128"`
	SiteID    string `json:"siteId" validate:"max=128"`
	SubsiteID string `json:"subsiteId" validate:"max=128"`
}

func (r *SelectTenantRequest) Normalize() {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.SiteID = strings.TrimSpace(r.SiteID)
	r.SubsiteID = strings.TrimSpace(r.SubsiteID)
}

// Validate checks every given id is a usable path segment. Empty levels
// are allowed; they resolve to no path.
func (r *SelectTenantRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if r.CompanyID != "" {
		if _, err := id.ParseCompanyID(r.CompanyID); err != nil {
			return err
		}
	}
	if r.SiteID != "" {
		if _, err := id.ParseSiteID(r.SiteID); err != nil {
			return err
		}
	}
	if r.SubsiteID != "" {
		if _, err := id.ParseSubsiteID(r.SubsiteID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SelectTenantRequest) Tenant() models.TenantContext {
	return models.TenantContext{
		CompanyID: id.CompanyID(r.CompanyID),
		SiteID:    id.SiteID(r.SiteID),
		SubsiteID: id.SubsiteID(r.SubsiteID),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"notblank,max=64"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

func (r *UpdateStatusRequest) Validate() error {
	return validation.Validate(r)
}

type dayQuery struct {
	Date string `json:"date" validate:"datetime=2006-01-02"`
}

func parseDate(s string) (string, error) {
	if err := validation.Validate(dayQuery{Date: s}); err != nil {
		return "", err
	}
	return s, nil
}

type rangeQuery struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// parseRange reads optional start and end dates. Missing bounds keep the
// aggregator defaults; with neither given it returns nil.
func parseRange(start, end string) (*stats.Range, error) {
	if err := validation.Validate(rangeQuery{Start: start, End: end}); err != nil {
		return nil, err
	}
	if start == "" && end == "" {
		return nil, nil
	}
	var rng stats.Range
	if start != "" {
		rng.Start, _ = time.Parse(dateLayout, start)
	}
	if end != "" {
		rng.End, _ = time.Parse(dateLayout, end)
	}
	return &rng, nil
}
