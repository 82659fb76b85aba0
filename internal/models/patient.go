package models

// Patient is a read-time aggregation of appointments grouped by lowercased
// email. It is never stored.
type Patient struct {
	Email     string `bson:"_id" json:"email"`
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	LastVisit string `bson:"lastVisit" json:"lastVisit"`
	Visits    int    `bson:"visits" json:"visits"`
}
