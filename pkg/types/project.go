package types

import "strings"

// WebsiteType is the kind of website a project builds. The set is open:
// unrecognized values are treated as WebsiteOther.
type WebsiteType string

const (
	WebsiteBusiness   WebsiteType = "business"
	WebsitePortfolio  WebsiteType = "portfolio"
	WebsiteBlog       WebsiteType = "blog"
	WebsiteEcommerce  WebsiteType = "ecommerce"
	WebsiteLanding    WebsiteType = "landing"
	WebsiteRestaurant WebsiteType = "restaurant"
	WebsiteAgency     WebsiteType = "agency"
	WebsiteNonprofit  WebsiteType = "nonprofit"
	WebsiteEducation  WebsiteType = "education"
	WebsiteHealthcare WebsiteType = "healthcare"
	WebsiteOther      WebsiteType = "other"
)

// WebsiteTypes lists the recognized website types in display order.
var WebsiteTypes = []WebsiteType{
	WebsiteBusiness,
	WebsitePortfolio,
	WebsiteBlog,
	WebsiteEcommerce,
	WebsiteLanding,
	WebsiteRestaurant,
	WebsiteAgency,
	WebsiteNonprofit,
	WebsiteEducation,
	WebsiteHealthcare,
	WebsiteOther,
}

// Known reports whether t is one of WebsiteTypes.
func (t WebsiteType) Known() bool {
	for _, k := range WebsiteTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Normalize lowercases t and maps unrecognized values to WebsiteOther.
func (t WebsiteType) Normalize() WebsiteType {
	n := WebsiteType(strings.ToLower(strings.TrimSpace(string(t))))
	if n.Known() {
		return n
	}
	return WebsiteOther
}

// Status is the generation status of a project.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusGenerated   Status = "generated"
	StatusRegenerated Status = "regenerated"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusGenerated, StatusRegenerated:
		return true
	default:
		return false
	}
}

// RevertsTo reports whether moving from s to next would send a project back
// to draft. No generation outcome may do that.
func (s Status) RevertsTo(next Status) bool {
	return s != StatusDraft && next == StatusDraft
}

// Project is a persisted website-building task.
type Project struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id,omitempty"`
	Name          string      `json:"project_name"`
	Description   string      `json:"description"`
	WebsiteType   WebsiteType `json:"website_type"`
	Requirements  string      `json:"requirements"`
	Status        Status      `json:"status"`
	GeneratedCode *string     `json:"generated_code"`
	CreatedAt     Timestamp   `json:"created_at"`
	UpdatedAt     Timestamp   `json:"updated_at"`
}

// HasCode reports whether the project carries generated code.
func (p *Project) HasCode() bool {
	return p.GeneratedCode != nil && *p.GeneratedCode != ""
}

// Consistent reports whether status and generated code agree:
// code is present iff the status is past draft.
func (p *Project) Consistent() bool {
	if !p.Status.Valid() {
		return false
	}
	return p.HasCode() == (p.Status != StatusDraft)
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	if p.GeneratedCode != nil {
		code := *p.GeneratedCode
		c.GeneratedCode = &code
	}
	return &c
}

// ProjectFields holds the user-editable project fields. Status and generated
// code are absent; they only change through generation.
type ProjectFields struct {
	Name         string      `json:"project_name"`
	Description  string      `json:"description"`
	WebsiteType  WebsiteType `json:"website_type"`
	Requirements string      `json:"requirements"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// ProjectUpdate is a partial edit of ProjectFields. Nil fields are left
// unchanged.
type ProjectUpdate struct {
	Name         *string      `json:"project_name,omitempty"`
	Description  *string      `json:"description,omitempty"`
	WebsiteType  *WebsiteType `json:"website_type,omitempty"`
	Requirements *string      `json:"requirements,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProjectUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.WebsiteType == nil && u.Requirements == nil
}
