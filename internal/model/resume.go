// Package model defines the resume aggregate edited by the draft store.
//
// These are the INTERNAL shapes: the ones editors read and write and the ones
// persisted to client storage. The server's REST schema lives in package wire,
// which translates in both directions.
//
// ZERO VALUES OVER POINTERS:
// Every scalar field is a plain string/bool. A field missing from JSON decodes
// to "" or false, which is exactly what editors expect, so scalars are never
// nil in this layer. The only pointers are identities that can be genuinely
// absent (ServerID) and the photo link (a resume may have no photo at all).
package model

// Resume is the root aggregate. It exclusively owns its personal info, every
// section collection and its photo reference.
//
// WHY BOTH ID AND ServerID?
// A draft that has never been saved has a synthetic "local_..." id and no
// ServerID. After the first successful create, ID becomes the decimal form of
// the server's numeric id and ServerID points at the same number.
type Resume struct {
	ID            string        `json:"id"`
	ServerID      *int64        `json:"server_id,omitempty"`
	Title         string        `json:"title"`
	IsPublic      bool          `json:"is_public"`
	Template      string        `json:"template"`
	Customization Customization `json:"customization"`
	PersonalInfo  PersonalInfo  `json:"personal_info"`

	Education        []Education       `json:"education"`
	Experience       []Experience      `json:"experience"`
	Skills           []Skill           `json:"skills"`
	Languages        []Language        `json:"languages"`
	Referrals        []Referral        `json:"referrals"`
	CustomSections   []CustomSection   `json:"custom_sections"`
	Extracurriculars []Extracurricular `json:"extracurriculars"`
	Hobbies          []Hobby           `json:"hobbies"`
	Courses          []Course          `json:"courses"`
	Internships      []Internship      `json:"internships"`

	// Photos is the canonical photo reference. Editors have historically sent
	// it as an array or as an object; PhotoValue accepts both.
	Photos PhotoValue `json:"photos"`
	// Photo is the legacy direct shape ({"photo": {"photolink": ...}}).
	// It is only read when resolving the outbound photo link.
	Photo *Photo `json:"photo,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Customization holds the cosmetic rendering options of a resume.
type Customization struct {
	Template          string  `json:"template,omitempty"`
	AccentColor       string  `json:"accent_color"`
	FontFamily        string  `json:"font_family"`
	LineSpacing       float64 `json:"line_spacing"`
	HeadingsUppercase bool    `json:"headings_uppercase"`
	HideSkillLevel    bool    `json:"hide_skill_level"`
}

// DefaultCustomization is applied to blank drafts.
func DefaultCustomization() Customization {
	return Customization{
		Template:    "stockholm",
		AccentColor: "#1a5276",
		FontFamily:  "Helvetica, Arial, sans-serif",
		LineSpacing: 1.5,
	}
}

// PersonalInfo is the flat contact and biographical record of a resume.
type PersonalInfo struct {
	FullName       string `json:"full_name"`
	Title          string `json:"title"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	DateOfBirth    string `json:"date_of_birth"`
	Nationality    string `json:"nationality"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	DrivingLicense string `json:"driving_license"`
	LinkedIn       string `json:"linkedin"`
	Website        string `json:"website"`
	Summary        string `json:"summary"`
}

// Blank returns a new local-only draft: synthetic id, default customization,
// and every collection an empty (non-nil) slice so it serialises as [].
func Blank() *Resume {
	custom := DefaultCustomization()
	return &Resume{
		ID:               NewLocalID(),
		Title:            "My Resume",
		Template:         custom.Template,
		Customization:    custom,
		Education:        []Education{},
		Experience:       []Experience{},
		Skills:           []Skill{},
		Languages:        []Language{},
		Referrals:        []Referral{},
		CustomSections:   []CustomSection{},
		Extracurriculars: []Extracurricular{},
		Hobbies:          []Hobby{},
		Courses:          []Course{},
		Internships:      []Internship{},
	}
}

// IsLocal reports whether the resume has no server identity yet.
func (r *Resume) IsLocal() bool {
	return r.ServerID == nil && IsLocalID(r.ID)
}

// Clone returns a deep copy. Item structs hold only values, so cloning each
// slice is enough; the pointer fields are copied explicitly.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	c := *r
	if r.ServerID != nil {
		id := *r.ServerID
		c.ServerID = &id
	}
	if r.Photo != nil {
		p := r.Photo.clone()
		c.Photo = &p
	}
	c.Photos = r.Photos.clone()

	c.Education = cloneSlice(r.Education)
	c.Experience = cloneSlice(r.Experience)
	c.Skills = cloneSlice(r.Skills)
	c.Languages = cloneSlice(r.Languages)
	c.Referrals = cloneSlice(r.Referrals)
	c.CustomSections = cloneSlice(r.CustomSections)
	c.Extracurriculars = cloneSlice(r.Extracurriculars)
	c.Hobbies = cloneSlice(r.Hobbies)
	c.Courses = cloneSlice(r.Courses)
	c.Internships = cloneSlice(r.Internships)
	return &c
}

// EnsureCollections replaces nil collections with empty slices.
func (r *Resume) EnsureCollections() {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.Referrals == nil {
		r.Referrals = []Referral{}
	}
	if r.CustomSections == nil {
		r.CustomSections = []CustomSection{}
	}
	if r.Extracurriculars == nil {
		r.Extracurriculars = []Extracurricular{}
	}
	if r.Hobbies == nil {
		r.Hobbies = []Hobby{}
	}
	if r.Courses == nil {
		r.Courses = []Course{}
	}
	if r.Internships == nil {
		r.Internships = []Internship{}
	}
}

// cloneSlice keeps nil as nil and copies everything else, including empty slices.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
