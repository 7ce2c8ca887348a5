package payrun

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Payrun is the processing cycle of one company month. Payroll rows always belong to one.
type Payrun struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payrun_period,priority:1"`
	Month     int        `gorm:"not null;uniqueIndex:uq_payrun_period,priority:3"`
	Year      int        `gorm:"not null;uniqueIndex:uq_payrun_period,priority:2"`
	Status    string     `gorm:"type:varchar(10);not null;default:'OPEN'"`
	OpenedBy  *uuid.UUID `gorm:"type:uuid"`
	ClosedBy  *uuid.UUID `gorm:"type:uuid"`
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
