package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	FullName          string          `json:"full_name" binding:"required,max=150"`
	Email             string          `json:"email" binding:"required,email"`
	EmployeeNumber    string          `json:"employee_number" binding:"omitempty,max=20"`
	Phone             string          `json:"phone" binding:"omitempty,max=30"`
	Department        string          `json:"department" binding:"omitempty,max=100"`
	Designation       string          `json:"designation" binding:"omitempty,max=100"`
	Location          string          `json:"location" binding:"omitempty,max=100"`
	JoiningDate       string          `json:"joining_date" binding:"required"`
	Salary            decimal.Decimal `json:"salary"`
	PAN               string          `json:"pan" binding:"omitempty,max=20"`
	UAN               string          `json:"uan" binding:"omitempty,max=20"`
	BankAccountNumber string          `json:"bank_account_number" binding:"omitempty,max=40"`
	EmploymentStatus  string          `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateEmployeeRequest CreateEmployeeRequest

type EmployeeResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	EmployeeNumber    string          `json:"employee_number"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	Department        string          `json:"department,omitempty"`
	Designation       string          `json:"designation,omitempty"`
	Location          string          `json:"location,omitempty"`
	JoiningDate       string          `json:"joining_date"`
	Salary            decimal.Decimal `json:"salary"`
	PAN               string          `json:"pan,omitempty"`
	UAN               string          `json:"uan,omitempty"`
	BankAccountNumber string          `json:"bank_account_number,omitempty"`
	EmploymentStatus  string          `json:"employment_status"`
}

type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}
