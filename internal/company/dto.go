package company

type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LegalName string `json:"legalName,omitempty"`
	Document  string `json:"document,omitempty"`
}

type CompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

type AliasResponse struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
	Source string `json:"source"`
}

type AliasesResponse struct {
	Aliases []AliasResponse `json:"aliases"`
}
