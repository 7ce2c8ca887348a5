package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_employee_number,priority:1;uniqueIndex:uq_employee_email,priority:1"`
	EmployeeNumber    string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number,priority:2"`
	FullName          string          `gorm:"type:varchar(150);not null"`
	Email             string          `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email,priority:2"`
	Phone             string          `gorm:"type:varchar(30)"`
	Department        string          `gorm:"type:varchar(100)"`
	Designation       string          `gorm:"type:varchar(100)"`
	Location          string          `gorm:"type:varchar(100)"`
	JoiningDate       time.Time       `gorm:"type:date;not null"`
	Salary            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PAN               string          `gorm:"type:varchar(20)"`
	UAN               string          `gorm:"type:varchar(20)"`
	BankAccountNumber string          `gorm:"type:varchar(40)"`
	EmploymentStatus  string          `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}
