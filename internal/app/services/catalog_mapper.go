package services

import (
	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/models/dto"
)

// unknownInstructor is the display fallback for sections and meetings that
// have no resolved instructor yet.
const unknownInstructor = "TBA"

// toSectionResponse flattens a joined section into its response shape
func toSectionResponse(section *models.Section, term *models.Term) dto.SectionResponse {
	response := dto.SectionResponse{
		ID:             section.ID,
		CRN:            section.CRN,
		SectionCode:    section.Code,
		Branch:         section.Branch,
		ScheduleType:   section.ScheduleType,
		Level:          section.Level,
		Credits:        section.Credits,
		InstructorName: unknownInstructor,
	}

	if term != nil {
		response.TermName = term.Name
	}

	if course := section.Course; course != nil {
		response.CourseTitle = course.Title
		response.CourseCode = course.Code
		response.CourseNumber = course.Number
	}

	if instructor := section.Instructor; instructor != nil {
		response.InstructorName = instructor.Name
		response.InstructorEmail = instructor.Email
	}

	response.Schedules = make([]dto.ScheduleResponse, 0, len(section.Schedules))
	for _, meeting := range section.Schedules {
		response.Schedules = append(response.Schedules, toScheduleResponse(meeting, section))
	}

	return response
}

// toScheduleResponse maps one meeting; the meeting's own instructor wins
// over the section's primary one.
func toScheduleResponse(meeting *models.Schedule, section *models.Section) dto.ScheduleResponse {
	response := dto.ScheduleResponse{
		Type:       meeting.Type,
		Days:       meeting.Days,
		Time:       meeting.RawTime,
		Room:       meeting.Location,
		Instructor: unknownInstructor,
	}

	switch {
	case meeting.Instructor != nil:
		response.Instructor = meeting.Instructor.Name
	case section.Instructor != nil:
		response.Instructor = section.Instructor.Name
	}

	return response
}
