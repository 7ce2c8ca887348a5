package profile

type UpsertProfileRequest struct {
	DateOfBirth      string `json:"date_of_birth"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	AccountNumber    string `json:"account_number" binding:"omitempty,numeric,min=6,max=34"`
	BankName         string `json:"bank_name" binding:"max=100"`
	IFSCCode         string `json:"ifsc_code" binding:"omitempty,len=11,alphanum"`
	PANNumber        string `json:"pan_number" binding:"omitempty,len=10,alphanum"`
	UANNumber        string `json:"uan_number" binding:"omitempty,len=12,numeric"`
}

type UpdateMyProfileRequest UpsertProfileRequest

type ProfileResponse struct {
	ID               string `json:"id"`
	CompanyID        string `json:"company_id"`
	EmployeeID       string `json:"employee_id"`
	EmployeeNumber   string `json:"employee_number,omitempty"`
	FullName         string `json:"full_name,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	AccountNumber    string `json:"account_number"`
	BankName         string `json:"bank_name"`
	IFSCCode         string `json:"ifsc_code"`
	PANNumber        string `json:"pan_number"`
	UANNumber        string `json:"uan_number"`
	HasBankDetails   bool   `json:"has_bank_details"`
	UpdatedAt        string `json:"updated_at"`
}
