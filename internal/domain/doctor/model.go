package doctor

import "time"

// Doctor maps to the doctor table. A deactivated doctor keeps their history
// but cannot receive new appointments.
type Doctor struct {
	ID               int64     `db:"id" json:"id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Specialty        string    `db:"specialty" json:"specialty"`
	Phone            string    `db:"phone" json:"phone"`
	Email            string    `db:"email" json:"email"`
	ClinicLocationID *int64    `db:"clinic_location_id" json:"clinic_location_id,omitempty"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
