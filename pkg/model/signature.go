package model

import "time"

// Signature is one signed registration on the petition
type Signature struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	Name       string    `gorm:"column:name" json:"name"`
	NationalID string    `gorm:"column:nationalid" json:"nationalId"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	Anonymous  bool      `gorm:"column:anonymous" json:"anonymous"`
	CreatedAt  time.Time `gorm:"column:signed;autoCreateTime" json:"signed"`
}

func (Signature) TableName() string {
	return "signatures"
}

// DisplayName returns the name shown on public listings
func (s Signature) DisplayName() string {
	if s.Anonymous {
		return "Anonymous"
	}
	return s.Name
}
