package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Staff roles. Admin manages accounts and the catalog; doctor additionally
// appears as a bookable practitioner.
const (
	RoleStaff  = "staff"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is a known staff role.
func ValidRole(r string) bool {
	return r == RoleStaff || r == RoleDoctor || r == RoleAdmin
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, hidden from JSON
	Role     string             `bson:"role" json:"role"`
	Phone    string             `bson:"phone" json:"phone"`
}
