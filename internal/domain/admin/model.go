package admin

import "time"

// Admin is a back-office account. It has no patient-facing profile.
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Credentialed capability: admins authenticate with a username (or email)
// and password.

func (a *Admin) CredentialSubject() string { return a.Username }
func (a *Admin) CredentialHash() string    { return a.PasswordHash }
func (a *Admin) AccountID() int64          { return a.ID }
func (a *Admin) AccountRole() string       { return "admin" }
func (a *Admin) DisplayName() string       { return a.Username }
