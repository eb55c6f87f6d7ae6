package alterdata

// JSON:API envelopes used by AlterData.

type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

type Resource[A any] struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    A                       `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// RelationshipID returns the related id, or "" when the relationship is absent.
func (r Resource[A]) RelationshipID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.ID
}

type Document[T any] struct {
	Data T `json:"data"`
}

type CompanyAttributes struct {
	Nome   string `json:"nome"`
	Codigo string `json:"codigo"`
	CNPJ   string `json:"cnpj,omitempty"`
}

type EmployeeAttributes struct {
	Codigo   string `json:"codigo"`
	Nome     string `json:"nome"`
	Situacao string `json:"situacao,omitempty"`
}

type EventAttributes struct {
	Codigo string `json:"codigo"`
	Nome   string `json:"nome"`
}

type MovementAttributes struct {
	Valor      string `json:"valor"`
	Inicio     string `json:"inicio"`
	Fim        string `json:"fim"`
	Comentario string `json:"comentario"`
	Created    string `json:"created"`
}

type (
	CompanyResource  = Resource[CompanyAttributes]
	EmployeeResource = Resource[EmployeeAttributes]
	EventResource    = Resource[EventAttributes]
	MovementResource = Resource[MovementAttributes]
)

const (
	TypeMovimentos    = "movimentos"
	TypeFuncionarios  = "funcionarios"
	TypeEmpresas      = "empresas"
	TypeTipoMovimento = "tiposmovimento"
	TypeEventos       = "eventos"

	RelFuncionario   = "funcionario"
	RelEmpresa       = "empresa"
	RelTipoMovimento = "tipomovimento"
	RelEvento        = "evento"
)

// NewMovement assembles the movimento document posted for one budget event.
func NewMovement(employeeID, companyID, movementTypeID, eventID string, attrs MovementAttributes) Document[MovementResource] {
	return Document[MovementResource]{
		Data: MovementResource{
			Type:       TypeMovimentos,
			Attributes: attrs,
			Relationships: map[string]Relationship{
				RelFuncionario:   {Data: &ResourceIdentifier{Type: TypeFuncionarios, ID: employeeID}},
				RelEmpresa:       {Data: &ResourceIdentifier{Type: TypeEmpresas, ID: companyID}},
				RelTipoMovimento: {Data: &ResourceIdentifier{Type: TypeTipoMovimento, ID: movementTypeID}},
				RelEvento:        {Data: &ResourceIdentifier{Type: TypeEventos, ID: eventID}},
			},
		},
	}
}
