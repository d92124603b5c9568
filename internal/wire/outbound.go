package wire

import "github.com/zadnan82/newcv-sub002/internal/model"

// FromInternal maps an editor resume to the server schema for POST/PATCH.
//
// The resume id, server_id and the legacy photo member are client
// bookkeeping and are not sent. Local item ids are dropped so the server
// assigns its own; numeric ones are kept so existing rows are updated.
// fallback supplies the photo when r carries none; it may be nil.
func FromInternal(r, fallback *model.Resume) *ResumeDoc {
	custom := r.Customization
	if custom.Template == "" {
		custom.Template = r.Template
	}
	info := r.PersonalInfo

	doc := &ResumeDoc{
		Title:         r.Title,
		IsPublic:      r.IsPublic,
		Customization: &custom,
		PersonalInfo:  &info,
	}

	link, _ := ResolvePhotolink(r, fallback)
	doc.Photos = model.NewPhotoValue(link)

	doc.Educations = make([]EducationDoc, 0, len(r.Education))
	for _, e := range r.Education {
		doc.Educations = append(doc.Educations, EducationDoc{
			ID:           outboundID(e.ID),
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

	doc.Experiences = make([]ExperienceDoc, 0, len(r.Experience))
	for _, e := range r.Experience {
		doc.Experiences = append(doc.Experiences, ExperienceDoc{
			ID:          outboundID(e.ID),
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}

	doc.Internships = make([]InternshipDoc, 0, len(r.Internships))
	for _, e := range r.Internships {
		doc.Internships = append(doc.Internships, InternshipDoc{
			ID:          outboundID(e.ID),
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}

	doc.Skills = make([]SkillDoc, 0, len(r.Skills))
	for _, s := range r.Skills {
		doc.Skills = append(doc.Skills, SkillDoc{ID: outboundID(s.ID), Name: s.Name, Level: s.Level})
	}

	doc.Languages = make([]LanguageDoc, 0, len(r.Languages))
	for _, l := range r.Languages {
		doc.Languages = append(doc.Languages, LanguageDoc{
			ID:          outboundID(l.ID),
			Language:    l.Name,
			Proficiency: l.Level,
		})
	}

	doc.Referrals = make([]ReferralDoc, 0, len(r.Referrals))
	for _, ref := range r.Referrals {
		doc.Referrals = append(doc.Referrals, ReferralDoc{
			ID:       outboundID(ref.ID),
			Name:     ref.Name,
			Relation: ref.Relation,
			Phone:    ref.Phone,
			Email:    ref.Email,
		})
	}

	doc.CustomSections = make([]CustomSectionDoc, 0, len(r.CustomSections))
	for _, c := range r.CustomSections {
		doc.CustomSections = append(doc.CustomSections, CustomSectionDoc{
			ID:          outboundID(c.ID),
			Title:       c.Title,
			Description: c.Description,
		})
	}

	doc.Extracurriculars = make([]ExtracurricularDoc, 0, len(r.Extracurriculars))
	for _, x := range r.Extracurriculars {
		doc.Extracurriculars = append(doc.Extracurriculars, ExtracurricularDoc{
			ID:          outboundID(x.ID),
			Name:        x.Name,
			Description: x.Description,
		})
	}

	doc.Hobbies = make([]HobbyDoc, 0, len(r.Hobbies))
	for _, h := range r.Hobbies {
		doc.Hobbies = append(doc.Hobbies, HobbyDoc{ID: outboundID(h.ID), Name: h.Name})
	}

	doc.Courses = make([]CourseDoc, 0, len(r.Courses))
	for _, c := range r.Courses {
		doc.Courses = append(doc.Courses, CourseDoc{
			ID:          outboundID(c.ID),
			Name:        c.Name,
			Institution: c.Institution,
			Description: c.Description,
		})
	}

	return doc
}

// outboundID keeps server ids and drops synthetic ones.
func outboundID(id string) ItemID {
	if _, ok := model.ParseServerID(id); ok {
		return ItemID(id)
	}
	return ""
}
