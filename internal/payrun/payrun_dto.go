package payrun

type OpenPayrunRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
}

type ListPayrunsRequest struct {
	Year int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

type PayrunResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Period    string  `json:"period"`
	Status    string  `json:"status"`
	OpenedBy  *string `json:"opened_by,omitempty"`
	ClosedBy  *string `json:"closed_by,omitempty"`
	ClosedAt  *string `json:"closed_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}
