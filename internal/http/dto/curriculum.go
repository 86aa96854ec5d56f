package dto

import "bmgrades.app/tracker/internal/curriculum"

type CurriculumResponse struct {
	BMType       curriculum.BMType    `json:"bm_type"`
	Name         string               `json:"name"`
	Semesters    int                  `json:"semesters"`
	Subjects     []curriculum.Subject `json:"subjects"`
	ExamSubjects []string             `json:"exam_subjects"`
}

func ToCurriculumResponse(c *curriculum.Curriculum, subjects []curriculum.Subject) *CurriculumResponse {
	if subjects == nil {
		subjects = []curriculum.Subject{}
	}
	exam := []string{}
	for _, s := range c.ExamSubjects() {
		exam = append(exam, s.Name)
	}
	return &CurriculumResponse{
		BMType:       c.BMType,
		Name:         c.Name,
		Semesters:    c.Semesters,
		Subjects:     subjects,
		ExamSubjects: exam,
	}
}
