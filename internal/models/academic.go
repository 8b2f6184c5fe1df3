package models

// AcademicYear labels the form and year code a student is enrolled in.
type AcademicYear struct {
	ID       int64  `db:"id" json:"id"`
	Form     string `db:"form" json:"form"`
	YearCode string `db:"year_code" json:"year_code"`
}

// House is a student house.
type House struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"house_name" json:"house_name"`
}

// Teacher is linked to students through academic_relationship.
type Teacher struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"teacher_name" json:"teacher_name"`
	LastName *string `db:"teacher_last_name" json:"teacher_last_name"`
	Email    *string `db:"teacher_email" json:"teacher_email"`
	Subject  *string `db:"subject" json:"subject"`
}

// Tutor is referenced by at most one column on a student.
type Tutor struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"tutor_name" json:"tutor_name"`
	LastName *string `db:"tutor_last_name" json:"tutor_last_name"`
	Email    *string `db:"tutor_email" json:"tutor_email"`
}

// Report is a quarterly report card stored as a PDF.
type Report struct {
	Quarter  string `db:"quarter" json:"quarter"`
	Year     int    `db:"year" json:"year"`
	FileName string `db:"file_name" json:"file_name"`
	FileURL  string `db:"file_url" json:"file_url"`
}
