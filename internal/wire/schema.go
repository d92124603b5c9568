// Package wire is the server side of the resume translation.
//
// The backend's REST schema differs from the editor shape in model in a few
// ways: numeric ids, plural collection names, "language"/"proficiency" for
// languages, and no client bookkeeping (local ids, server_id, legacy photo
// shapes). ToInternal and FromInternal convert between the two; nothing in
// this package does I/O.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zadnan82/newcv-sub002/internal/model"
)

// ResumeDoc is the server's resume resource.
type ResumeDoc struct {
	ID            int64                `json:"id,omitempty"`
	UserID        int64                `json:"user_id,omitempty"`
	Title         string               `json:"title"`
	IsPublic      bool                 `json:"is_public"`
	Customization *model.Customization `json:"customization,omitempty"`
	PersonalInfo  *model.PersonalInfo  `json:"personal_info"`

	Educations       []EducationDoc       `json:"educations"`
	Experiences      []ExperienceDoc      `json:"experiences"`
	Skills           []SkillDoc           `json:"skills"`
	Languages        []LanguageDoc        `json:"languages"`
	Referrals        []ReferralDoc        `json:"referrals"`
	CustomSections   []CustomSectionDoc   `json:"custom_sections"`
	Extracurriculars []ExtracurricularDoc `json:"extracurricular_activities"`
	Hobbies          []HobbyDoc           `json:"hobbies"`
	Courses          []CourseDoc          `json:"courses"`
	Internships      []InternshipDoc      `json:"internships"`

	Photos model.PhotoValue `json:"photos"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ItemID is a collection item id as the server sends it. It is normally a
// number; a string is tolerated. The empty value is omitted on encode so new
// items are created server side.
type ItemID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("wire: decoding item id: %w", err)
		}
		*id = ItemID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("wire: decoding item id: %w", err)
		}
		*id = ItemID(n.String())
	}
	return nil
}

// MarshalJSON emits numeric ids as numbers and anything else as a string.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

type EducationDoc struct {
	ID           ItemID `json:"id,omitempty"`
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

type ExperienceDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type InternshipDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type SkillDoc struct {
	ID    ItemID `json:"id,omitempty"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// LanguageDoc is where the naming diverges: language/proficiency on the wire,
// name/level in the editor.
type LanguageDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type ReferralDoc struct {
	ID       ItemID `json:"id,omitempty"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type CustomSectionDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ExtracurricularDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type HobbyDoc struct {
	ID   ItemID `json:"id,omitempty"`
	Name string `json:"name"`
}

type CourseDoc struct {
	ID          ItemID `json:"id,omitempty"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Description string `json:"description"`
}

// PhotoBody is the request body of PUT /{id}/photo.
type PhotoBody struct {
	Photolink string `json:"photolink"`
}
