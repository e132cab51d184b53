package patient

import "time"

// Patient maps to the patient table. PasswordHash is a bcrypt hash and is
// never serialized.
type Patient struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	DateOfBirth  time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender       string    `db:"gender" json:"gender,omitempty"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	Address      string    `db:"address" json:"address,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Credentialed capability: patients authenticate with an email and password.

func (p *Patient) CredentialSubject() string { return p.Email }
func (p *Patient) CredentialHash() string    { return p.PasswordHash }
func (p *Patient) AccountID() int64          { return p.ID }
func (p *Patient) AccountRole() string       { return "patient" }
func (p *Patient) DisplayName() string       { return p.FullName() }
