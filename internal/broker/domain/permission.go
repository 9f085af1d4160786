package domain

import "time"

// Permission is one company's authorized view of one user's attributes. A
// row exists only while at least one field is allowed; clearing the last
// field deletes the row rather than keeping an all-false shell.
type Permission struct {
	ID        string
	UserID    string
	CompanyID string

	EmailAllowed    bool
	PhoneAllowed    bool
	IDNumberAllowed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Empty reports whether no field is allowed.
func (p Permission) Empty() bool {
	return !p.EmailAllowed && !p.PhoneAllowed && !p.IDNumberAllowed
}

// AllowedFields lists the granted attribute names in a stable order.
func (p Permission) AllowedFields() []string {
	fields := make([]string, 0, 3)
	if p.EmailAllowed {
		fields = append(fields, "email")
	}
	if p.PhoneAllowed {
		fields = append(fields, "phone")
	}
	if p.IDNumberAllowed {
		fields = append(fields, "idNumber")
	}
	return fields
}

// PermissionFields is a partial update of the three grant flags. Nil means
// leave unchanged.
type PermissionFields struct {
	EmailAllowed    *bool
	PhoneAllowed    *bool
	IDNumberAllowed *bool
}

// ApplyTo overlays the set fields onto p.
func (f PermissionFields) ApplyTo(p *Permission) {
	if f.EmailAllowed != nil {
		p.EmailAllowed = *f.EmailAllowed
	}
	if f.PhoneAllowed != nil {
		p.PhoneAllowed = *f.PhoneAllowed
	}
	if f.IDNumberAllowed != nil {
		p.IDNumberAllowed = *f.IDNumberAllowed
	}
}
