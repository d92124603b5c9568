package wire

import (
	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

// Normalize decodes a server body (object or array) and translates it into
// the editor shape. An empty body is reported as not found.
func Normalize(raw []byte) (*model.Resume, error) {
	p, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	doc, ok := p.First()
	if !ok {
		return nil, apperror.NotFound("resume", "(empty response)")
	}
	return ToInternal(doc), nil
}

// NormalizeList decodes a list body. A single object is treated as a list of one.
func NormalizeList(raw []byte) ([]*model.Resume, error) {
	p, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Resume, 0, len(p.Docs))
	for i := range p.Docs {
		out = append(out, ToInternal(&p.Docs[i]))
	}
	return out, nil
}

// ToInternal maps a server resource to the editor shape.
//
// Missing scalars stay "" / false, missing collections become empty slices,
// items without a server id get a local one, and the dated sections are put
// back into current-first, newest-first order.
func ToInternal(doc *ResumeDoc) *model.Resume {
	r := &model.Resume{
		Title:     doc.Title,
		IsPublic:  doc.IsPublic,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}

	if doc.ID > 0 {
		id := doc.ID
		r.ID = model.FormatServerID(id)
		r.ServerID = &id
	} else {
		r.ID = model.NewLocalID()
	}

	if doc.Customization != nil {
		r.Customization = *doc.Customization
	} else {
		r.Customization = model.DefaultCustomization()
	}
	r.Template = r.Customization.Template

	if doc.PersonalInfo != nil {
		r.PersonalInfo = *doc.PersonalInfo
	}

	if link := doc.Photos.URL(); link != "" {
		r.Photos = model.NewPhotoValue(link)
	} else {
		r.Photos = model.PhotoValue{Shape: model.PhotoShapeObject}
	}

	r.Education = make([]model.Education, 0, len(doc.Educations))
	for _, e := range doc.Educations {
		r.Education = append(r.Education, model.Education{
			ID:           inboundID(e.ID),
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Current:      e.Current,
			GPA:          e.GPA,
			Description:  e.Description,
		})
	}
	sortDated(r.Education, func(e *model.Education) datedKey {
		return datedKey{current: e.Current, start: e.StartDate, end: e.EndDate}
	})

	r.Experience = make([]model.Experience, 0, len(doc.Experiences))
	for _, e := range doc.Experiences {
		r.Experience = append(r.Experience, model.Experience{
			ID:          inboundID(e.ID),
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	sortDated(r.Experience, func(e *model.Experience) datedKey {
		return datedKey{current: e.Current, start: e.StartDate, end: e.EndDate}
	})

	r.Internships = make([]model.Internship, 0, len(doc.Internships))
	for _, e := range doc.Internships {
		r.Internships = append(r.Internships, model.Internship{
			ID:          inboundID(e.ID),
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	sortDated(r.Internships, func(e *model.Internship) datedKey {
		return datedKey{current: e.Current, start: e.StartDate, end: e.EndDate}
	})

	r.Skills = make([]model.Skill, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		r.Skills = append(r.Skills, model.Skill{ID: inboundID(s.ID), Name: s.Name, Level: s.Level})
	}

	r.Languages = make([]model.Language, 0, len(doc.Languages))
	for _, l := range doc.Languages {
		r.Languages = append(r.Languages, model.Language{
			ID:    inboundID(l.ID),
			Name:  l.Language,
			Level: l.Proficiency,
		})
	}

	r.Referrals = make([]model.Referral, 0, len(doc.Referrals))
	for _, ref := range doc.Referrals {
		r.Referrals = append(r.Referrals, model.Referral{
			ID:       inboundID(ref.ID),
			Name:     ref.Name,
			Relation: ref.Relation,
			Phone:    ref.Phone,
			Email:    ref.Email,
		})
	}

	r.CustomSections = make([]model.CustomSection, 0, len(doc.CustomSections))
	for _, c := range doc.CustomSections {
		r.CustomSections = append(r.CustomSections, model.CustomSection{
			ID:          inboundID(c.ID),
			Title:       c.Title,
			Description: c.Description,
		})
	}

	r.Extracurriculars = make([]model.Extracurricular, 0, len(doc.Extracurriculars))
	for _, x := range doc.Extracurriculars {
		r.Extracurriculars = append(r.Extracurriculars, model.Extracurricular{
			ID:          inboundID(x.ID),
			Name:        x.Name,
			Description: x.Description,
		})
	}

	r.Hobbies = make([]model.Hobby, 0, len(doc.Hobbies))
	for _, h := range doc.Hobbies {
		r.Hobbies = append(r.Hobbies, model.Hobby{ID: inboundID(h.ID), Name: h.Name})
	}

	r.Courses = make([]model.Course, 0, len(doc.Courses))
	for _, c := range doc.Courses {
		r.Courses = append(r.Courses, model.Course{
			ID:          inboundID(c.ID),
			Name:        c.Name,
			Institution: c.Institution,
			Description: c.Description,
		})
	}

	return r
}

func inboundID(id ItemID) string {
	if id == "" {
		return model.NewLocalID()
	}
	return string(id)
}
