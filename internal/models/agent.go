package models

// Agent is an admin-curated real-estate agent card. Rating encodes one
// decimal place as an integer (45 = 4.5) and ranges 0-50.
type Agent struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	Company        string `gorm:"not null" json:"company"`
	Image          string `gorm:"not null" json:"image"`
	Rating         int    `gorm:"not null;default:0" json:"rating"`
	Specialization string `gorm:"not null" json:"specialization"`
}

// InsertAgent is the subset of Agent accepted from an admin.
type InsertAgent struct {
	Name           string `json:"name"`
	Company        string `json:"company"`
	Image          string `json:"image"`
	Rating         int    `json:"rating"`
	Specialization string `json:"specialization"`
}
