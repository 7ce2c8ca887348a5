package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a login account. EmployeeID is nil only for the seeded administrator.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID *uuid.UUID     `gorm:"column:employee_id;type:uuid;uniqueIndex:uq_users_employee"`
	Name       string         `gorm:"column:name;type:varchar(255);not null"`
	Role       string         `gorm:"column:role;type:varchar(50);not null;default:'EMPLOYEE'"`
	Email      string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password   string         `gorm:"column:password;type:text;not null"`
	IsActive   bool           `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Employee *UserEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// EmployeeIDString is empty for accounts without an employee record.
func (u User) EmployeeIDString() string {
	if u.EmployeeID == nil {
		return ""
	}
	return u.EmployeeID.String()
}

type UserEmployee struct {
	ID             uuid.UUID `gorm:"primaryKey"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
}

func (UserEmployee) TableName() string {
	return "employees"
}
