package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// Active page tags identifying which view a composite serves.
const (
	PageHome      = "home"
	PageAbout     = "about"
	PageReports   = "reports"
	PageTimetable = "timetable"
	PagePI        = "pi"
)

// NotFoundLabel is the placeholder for unresolved reference fields.
const NotFoundLabel = "Not found"

// DefaultGuardianName is shown when a student has no named guardian.
const DefaultGuardianName = "Guardian"

// StudentProfile is a student row with its signed photo link.
type StudentProfile struct {
	models.Student
	SignedPhotoURL *string `json:"signed_photo_url"`
}

// StudentHome is the composite for GET /students/:id/home.
type StudentHome struct {
	Student      StudentProfile `json:"student"`
	GuardianID   *int64         `json:"guardianId"`
	GuardianName string         `json:"guardianName"`
	ActivePage   string         `json:"activePage"`
}

// StudentAbout is the composite for GET /students/:id/about.
type StudentAbout struct {
	Student    StudentProfile   `json:"student"`
	Form       string           `json:"form"`
	YearCode   string           `json:"year_code"`
	HouseName  string           `json:"houseName"`
	Teachers   []models.Teacher `json:"teachers"`
	Tutor      *models.Tutor    `json:"tutor"`
	GuardianID *int64           `json:"guardianId"`
	ActivePage string           `json:"activePage"`
}

// ReportStudent is the behaviour projection with its signed photo link.
type ReportStudent struct {
	models.StudentBehaviour
	SignedPhotoURL *string `json:"signed_photo_url"`
}

// ReportLink is a report whose file_url has been replaced by a signed download link.
type ReportLink struct {
	Quarter  string `json:"quarter"`
	Year     int    `json:"year"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// StudentReports is the composite for GET /students/:id/reports.
type StudentReports struct {
	Student    ReportStudent `json:"student"`
	Reports    []ReportLink  `json:"reports"`
	GuardianID *int64        `json:"guardianId"`
	ActivePage string        `json:"activePage"`
}

// TimetableStudent carries both the photo and timetable links.
type TimetableStudent struct {
	models.Student
	SignedPhotoURL      *string `json:"signed_photo_url"`
	SignedTimetablesURL *string `json:"signed_timetables_url"`
}

// StudentTimetable is the composite for GET /students/:id/timetable.
type StudentTimetable struct {
	Student    TimetableStudent `json:"student"`
	GuardianID *int64           `json:"guardianId"`
	ActivePage string           `json:"activePage"`
}

// GuardianInfo is the composite for GET /guardians/:id/pi.
type GuardianInfo struct {
	Guardian   models.Guardian `json:"guardian"`
	Student    StudentProfile  `json:"student"`
	GuardianID int64           `json:"guardianId"`
	ActivePage string          `json:"activePage"`
}

// ChildSummary is one entry of a guardian's children list.
type ChildSummary struct {
	models.StudentSummary
	SignedPhotoURL *string `json:"signed_photo_url"`
}

// GuardianChildren lists the students sharing a guardian's login email.
type GuardianChildren struct {
	Students []ChildSummary `json:"students"`
}
