package dto

// LoginResponse is returned after a successful guardian login.
type LoginResponse struct {
	AccessToken        string `json:"access_token"`
	ExpiresIn          int64  `json:"expires_in"`
	GuardianID         int64  `json:"guardianId"`
	MustChangePassword bool   `json:"mustChangePassword"`
	Next               string `json:"next"`
}

// ChangePasswordResponse points the client at the children list.
type ChangePasswordResponse struct {
	GuardianID int64  `json:"guardianId"`
	Next       string `json:"next"`
}

// StudentRequest is the body of POST/PUT /students.
type StudentRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
}

// StudentResponse is the plain CRUD projection of a student.
type StudentResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateGuardianRequest registers a guardian with an initial password.
type CreateGuardianRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	StudentID *int64 `json:"studentId" validate:"omitempty,gt=0"`
}

// UpdateGuardianRequest edits a guardian's contact fields.
type UpdateGuardianRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	StudentID *int64 `json:"studentId" validate:"omitempty,gt=0"`
}

// GuardianResponse is the plain CRUD projection of a guardian.
type GuardianResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	StudentID          *int64 `json:"studentId"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// ExportFormat selects the report summary renderer.
type ExportFormat string

const (
	// ExportFormatCSV renders text/csv.
	ExportFormatCSV ExportFormat = "csv"
	// ExportFormatPDF renders application/pdf.
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
