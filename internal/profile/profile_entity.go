package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the private and bank details of an employee. One row per employee.
type Profile struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID      `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_profile_employee,priority:1"`
	EmployeeID       uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_profile_employee,priority:2"`
	DateOfBirth      *time.Time     `gorm:"column:date_of_birth;type:date"`
	Address          string         `gorm:"column:address;type:text"`
	EmergencyContact string         `gorm:"column:emergency_contact;type:varchar(100)"`
	AccountNumber    string         `gorm:"column:account_number;type:varchar(34)"`
	BankName         string         `gorm:"column:bank_name;type:varchar(100)"`
	IFSCCode         string         `gorm:"column:ifsc_code;type:varchar(11)"`
	PANNumber        string         `gorm:"column:pan_number;type:varchar(10)"`
	UANNumber        string         `gorm:"column:uan_number;type:varchar(12)"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee         *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Profile) TableName() string {
	return "profiles"
}

// HasBankDetails mirrors the gate payroll applies before a month can be marked done.
func (p Profile) HasBankDetails() bool {
	return p.AccountNumber != "" && p.BankName != ""
}

type EmployeeRef struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// MissingBankDetails is an active employee whose profile is absent or lacks bank data.
type MissingBankDetails struct {
	EmployeeID     string
	EmployeeNumber string
	FullName       string
}
