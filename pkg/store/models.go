package store

import (
	"gorm.io/datatypes"
)

// GORM models used for persistence. Position preserves ledger order
// (0 = most recent) so a reload reproduces the exact sequence.
type ClaimModel struct {
	ID          int64  `gorm:"primaryKey"`
	Position    int    `gorm:"not null;index"`
	ClaimNumber int    `gorm:"not null"`
	Date        string `gorm:"not null"`
	Status      string `gorm:"not null"`
	Vehicle     string
	Incident    string
	Estimate    string
	Parts       datatypes.JSON `gorm:"type:jsonb"`
}

type DocumentModel struct {
	ID       int64  `gorm:"primaryKey"`
	Position int    `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Type     string `gorm:"not null"`
	Date     string `gorm:"not null"`
	Status   string `gorm:"not null"`
}
