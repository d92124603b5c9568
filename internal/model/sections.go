package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Education is one entry of the education section.
type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Current      bool   `json:"current"`
	GPA          string `json:"gpa"`
	Description  string `json:"description"`
}

// Experience is one entry of the work experience section.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Internship has the same shape as Experience but lives in its own section.
type Internship struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Language uses name/level internally; the server calls them language/proficiency.
type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Referral struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type CustomSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Extracurricular struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Hobby struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Description string `json:"description"`
}

// Section names one of the resume's collections. The value is the
// collection's JSON key.
type Section string

const (
	SectionEducation        Section = "education"
	SectionExperience       Section = "experience"
	SectionSkills           Section = "skills"
	SectionLanguages        Section = "languages"
	SectionReferrals        Section = "referrals"
	SectionCustomSections   Section = "custom_sections"
	SectionExtracurriculars Section = "extracurriculars"
	SectionHobbies          Section = "hobbies"
	SectionCourses          Section = "courses"
	SectionInternships      Section = "internships"
)

// Sections lists every section in display order.
var Sections = []Section{
	SectionEducation, SectionExperience, SectionSkills, SectionLanguages,
	SectionReferrals, SectionCustomSections, SectionExtracurriculars,
	SectionHobbies, SectionCourses, SectionInternships,
}

// sectionAliases maps the names editors use to the canonical key.
// Editors mostly send the singular form ("hobby"), some send the plural.
var sectionAliases = map[string]Section{
	"education":                  SectionEducation,
	"educations":                 SectionEducation,
	"experience":                 SectionExperience,
	"experiences":                SectionExperience,
	"skill":                      SectionSkills,
	"skills":                     SectionSkills,
	"language":                   SectionLanguages,
	"languages":                  SectionLanguages,
	"referral":                   SectionReferrals,
	"referrals":                  SectionReferrals,
	"custom_section":             SectionCustomSections,
	"custom_sections":            SectionCustomSections,
	"customsection":              SectionCustomSections,
	"customsections":             SectionCustomSections,
	"extracurricular":            SectionExtracurriculars,
	"extracurriculars":           SectionExtracurriculars,
	"extracurricular_activity":   SectionExtracurriculars,
	"extracurricular_activities": SectionExtracurriculars,
	"hobby":                      SectionHobbies,
	"hobbies":                    SectionHobbies,
	"course":                     SectionCourses,
	"courses":                    SectionCourses,
	"internship":                 SectionInternships,
	"internships":                SectionInternships,
}

// ResolveSection turns an editor-supplied name into its canonical Section.
// Matching ignores case, surrounding space, and treats '-' like '_'.
func ResolveSection(name string) (Section, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	s, ok := sectionAliases[key]
	return s, ok
}

// Dated reports whether the section's items carry a date range and a
// "current" flag.
func (s Section) Dated() bool {
	return s == SectionEducation || s == SectionExperience || s == SectionInternships
}

// item is satisfied by a pointer to every section item type.
type item[T any] interface {
	*T
	itemID() string
	setItemID(id string)
}

func (e *Education) itemID() string { return e.ID }
func (e *Education) setItemID(id string) { e.ID = id }

func (e *Experience) itemID() string { return e.ID }
func (e *Experience) setItemID(id string) { e.ID = id }

func (e *Internship) itemID() string { return e.ID }
func (e *Internship) setItemID(id string) { e.ID = id }

func (e *Skill) itemID() string { return e.ID }
func (e *Skill) setItemID(id string) { e.ID = id }

func (e *Language) itemID() string { return e.ID }
func (e *Language) setItemID(id string) { e.ID = id }

func (e *Referral) itemID() string { return e.ID }
func (e *Referral) setItemID(id string) { e.ID = id }

func (e *CustomSection) itemID() string { return e.ID }
func (e *CustomSection) setItemID(id string) { e.ID = id }

func (e *Extracurricular) itemID() string { return e.ID }
func (e *Extracurricular) setItemID(id string) { e.ID = id }

func (e *Hobby) itemID() string { return e.ID }
func (e *Hobby) setItemID(id string) { e.ID = id }

func (e *Course) itemID() string { return e.ID }
func (e *Course) setItemID(id string) { e.ID = id }

// collection is the type-erased view of one section used by the generic
// mutation helpers below.
type collection struct {
	ids     func() []string
	add     func(raw []byte) (string, error)
	update  func(id string, patch []byte) (bool, error)
	remove  func(id string) bool
	replace func(raw []byte) error
	current func(id string) (bool, bool)
}

func newCollection[T any, P item[T]](items *[]T, isCurrent func(*T) bool) collection {
	return collection{
		ids: func() []string {
			out := make([]string, len(*items))
			for i := range *items {
				out[i] = P(&(*items)[i]).itemID()
			}
			return out
		},
		add: func(raw []byte) (string, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return "", err
			}
			id := NewLocalID()
			P(&v).setItemID(id)
			next := make([]T, 0, len(*items)+1)
			next = append(next, *items...)
			*items = append(next, v)
			return id, nil
		},
		update: func(id string, patch []byte) (bool, error) {
			for i := range *items {
				if P(&(*items)[i]).itemID() != id {
					continue
				}
				merged := (*items)[i]
				// Unmarshal only overwrites keys present in the patch, which
				// is a shallow merge for these flat structs.
				if err := json.Unmarshal(patch, &merged); err != nil {
					return false, err
				}
				P(&merged).setItemID(id)
				next := make([]T, len(*items))
				copy(next, *items)
				next[i] = merged
				*items = next
				return true, nil
			}
			return false, nil
		},
		remove: func(id string) bool {
			next := make([]T, 0, len(*items))
			for _, it := range *items {
				if P(&it).itemID() != id {
					next = append(next, it)
				}
			}
			removed := len(next) != len(*items)
			*items = next
			return removed
		},
		replace: func(raw []byte) error {
			var next []T
			if err := json.Unmarshal(raw, &next); err != nil {
				return err
			}
			if next == nil {
				next = []T{}
			}
			*items = next
			return nil
		},
		current: func(id string) (bool, bool) {
			if isCurrent == nil {
				return false, false
			}
			for i := range *items {
				if P(&(*items)[i]).itemID() == id {
					return isCurrent(&(*items)[i]), true
				}
			}
			return false, false
		},
	}
}

func (r *Resume) collection(s Section) (collection, error) {
	switch s {
	case SectionEducation:
		return newCollection[Education](&r.Education, func(e *Education) bool { return e.Current }), nil
	case SectionExperience:
		return newCollection[Experience](&r.Experience, func(e *Experience) bool { return e.Current }), nil
	case SectionInternships:
		return newCollection[Internship](&r.Internships, func(e *Internship) bool { return e.Current }), nil
	case SectionSkills:
		return newCollection[Skill](&r.Skills, nil), nil
	case SectionLanguages:
		return newCollection[Language](&r.Languages, nil), nil
	case SectionReferrals:
		return newCollection[Referral](&r.Referrals, nil), nil
	case SectionCustomSections:
		return newCollection[CustomSection](&r.CustomSections, nil), nil
	case SectionExtracurriculars:
		return newCollection[Extracurricular](&r.Extracurriculars, nil), nil
	case SectionHobbies:
		return newCollection[Hobby](&r.Hobbies, nil), nil
	case SectionCourses:
		return newCollection[Course](&r.Courses, nil), nil
	}
	return collection{}, fmt.Errorf("model: unknown section %q", string(s))
}

// toJSON lets callers pass a struct, a map or raw JSON interchangeably.
func toJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case json.RawMessage:
		return t, nil
	case []byte:
		return t, nil
	}
	return json.Marshal(v)
}

// AddItem appends item to section under a freshly synthesised local id and
// returns that id. Any id carried by item is replaced.
func (r *Resume) AddItem(s Section, item any) (string, error) {
	c, err := r.collection(s)
	if err != nil {
		return "", err
	}
	raw, err := toJSON(item)
	if err != nil {
		return "", fmt.Errorf("model: encoding %s item: %w", s, err)
	}
	id, err := c.add(raw)
	if err != nil {
		return "", fmt.Errorf("model: decoding %s item: %w", s, err)
	}
	return id, nil
}

// UpdateItem shallow-merges patch into the item with the given id. The item id
// itself cannot be patched. It reports false when no item matches.
func (r *Resume) UpdateItem(s Section, id string, patch any) (bool, error) {
	c, err := r.collection(s)
	if err != nil {
		return false, err
	}
	raw, err := toJSON(patch)
	if err != nil {
		return false, fmt.Errorf("model: encoding %s patch: %w", s, err)
	}
	ok, err := c.update(id, raw)
	if err != nil {
		return false, fmt.Errorf("model: applying %s patch: %w", s, err)
	}
	return ok, nil
}

// RemoveItem drops the item with the given id and reports whether one existed.
func (r *Resume) RemoveItem(s Section, id string) (bool, error) {
	c, err := r.collection(s)
	if err != nil {
		return false, err
	}
	return c.remove(id), nil
}

// ReplaceItems swaps the whole collection for items, in the given order.
func (r *Resume) ReplaceItems(s Section, items any) error {
	c, err := r.collection(s)
	if err != nil {
		return err
	}
	raw, err := toJSON(items)
	if err != nil {
		return fmt.Errorf("model: encoding %s items: %w", s, err)
	}
	if err := c.replace(raw); err != nil {
		return fmt.Errorf("model: decoding %s items: %w", s, err)
	}
	return nil
}

// ItemIDs returns the ids of a section in order.
func (r *Resume) ItemIDs(s Section) ([]string, error) {
	c, err := r.collection(s)
	if err != nil {
		return nil, err
	}
	return c.ids(), nil
}

// ItemCurrent returns the "current" flag of a dated item. The second result is
// false when the section is not dated or no item matches.
func (r *Resume) ItemCurrent(s Section, id string) (bool, bool) {
	c, err := r.collection(s)
	if err != nil {
		return false, false
	}
	return c.current(id)
}
