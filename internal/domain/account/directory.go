package account

import "context"

// existence lookups backing the identity resolver's mandatory re-check.
type adminExister interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type doctorExister interface {
	DoctorExists(ctx context.Context, id int64) (bool, error)
}

type patientExister interface {
	PatientExists(ctx context.Context, id int64) (bool, error)
}

// Directory implements auth.Directory on top of the three account stores.
type Directory struct {
	admins   adminExister
	doctors  doctorExister
	patients patientExister
}

func NewDirectory(admins adminExister, doctors doctorExister, patients patientExister) *Directory {
	return &Directory{admins: admins, doctors: doctors, patients: patients}
}

func (d *Directory) AdminExists(ctx context.Context, id int64) (bool, error) {
	return d.admins.Exists(ctx, id)
}

func (d *Directory) DoctorExists(ctx context.Context, id int64) (bool, error) {
	return d.doctors.DoctorExists(ctx, id)
}

func (d *Directory) PatientExists(ctx context.Context, id int64) (bool, error) {
	return d.patients.PatientExists(ctx, id)
}
