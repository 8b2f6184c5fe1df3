package models

// Guardian is a guardians row without its login secret.
type Guardian struct {
	ID                 int64  `db:"id" json:"id"`
	Name               string `db:"name_guardians" json:"name_guardians"`
	Email              string `db:"email_guardians" json:"email_guardians"`
	MustChangePassword bool   `db:"change_password" json:"change_password"`
	StudentID          *int64 `db:"fk_students_id" json:"fk_students_id"`
}

// GuardianLink is the back-reference from a student to its guardian.
type GuardianLink struct {
	ID   int64   `db:"id"`
	Name *string `db:"name_guardians"`
}

// GuardianCredentials is the projection the login flow compares against.
type GuardianCredentials struct {
	ID                 int64  `db:"id"`
	Email              string `db:"email_guardians"`
	PasswordHash       string `db:"password_guardians"`
	MustChangePassword bool   `db:"change_password"`
}
