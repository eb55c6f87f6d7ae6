package employee

// Reference identifies an employee across both systems; ExternalID is the matrícula.
type Reference struct {
	EmployeeID   string `json:"employeeId"`
	ExternalID   string `json:"externalId"`
	EmployeeName string `json:"employeeName"`
}

type EmployeesResponse struct {
	Employees []Reference `json:"employees"`
	Total     int         `json:"total"`
}
