package models

// Behaviour holds the merit/sanction counters and their narrative notes.
type Behaviour struct {
	Benes        *int64  `db:"benes" json:"benes"`
	Sanctions    *int64  `db:"sanctions" json:"sanctions"`
	Total        *int64  `db:"total" json:"total"`
	BenesNote    *string `db:"benes_note" json:"benes_note"`
	SanctionNote *string `db:"sanction_note" json:"sanction_note"`
	TotalNote    *string `db:"total_note" json:"total_note"`
}

// Student is a full row of the students table.
type Student struct {
	ID             int64   `db:"id" json:"id"`
	FirstName      string  `db:"student_name" json:"student_name"`
	LastName       *string `db:"student_last_name" json:"student_last_name"`
	Email          *string `db:"student_email" json:"student_email"`
	Photo          *string `db:"student_photo" json:"student_photo"`
	AcademicYearID *int64  `db:"academic_year" json:"academic_year"`
	HouseID        *int64  `db:"houses" json:"houses"`
	TutorID        *int64  `db:"tutors" json:"tutors"`
	Timetable      *string `db:"timetables" json:"timetables"`
	Behaviour
}

// StudentBehaviour is the narrow projection used by the reports view.
type StudentBehaviour struct {
	ID    int64   `db:"id" json:"id"`
	Photo *string `db:"student_photo" json:"student_photo"`
	Behaviour
}

// StudentSummary is the projection returned for a guardian's children list.
type StudentSummary struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"student_name" json:"student_name"`
	LastName  *string `db:"student_last_name" json:"student_last_name"`
	Photo     *string `db:"student_photo" json:"student_photo"`
}

// StudentFilter encapsulates paging for listing students.
type StudentFilter struct {
	Page     int
	PageSize int
}

// Pagination describes paging metadata in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
