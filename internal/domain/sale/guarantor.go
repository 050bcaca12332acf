package sale

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// GuarantorKind discriminador del fiador.
type GuarantorKind string

const (
	GuarantorKindExisting GuarantorKind = "existing"
	GuarantorKindNew      GuarantorKind = "new"
)

// Guarantor fiador de la venta: uno ya registrado o los datos de uno nuevo, nunca ambos.
// La interfaz está sellada; las únicas variantes son ExistingGuarantor y NewGuarantor.
type Guarantor interface {
	Kind() GuarantorKind
	Validate() *domain.ValidationError
	sealed()
}

// ExistingGuarantor fiador registrado, referenciado por ID.
type ExistingGuarantor struct {
	ID string `json:"id"`
}

func (ExistingGuarantor) Kind() GuarantorKind { return GuarantorKindExisting }
func (ExistingGuarantor) sealed()             {}

// Validate exige el ID.
func (g ExistingGuarantor) Validate() *domain.ValidationError {
	if strings.TrimSpace(g.ID) == "" {
		return domain.NewValidationError("guarantor.id", "debe indicar el fiador registrado")
	}
	return nil
}

// NewGuarantor datos de un fiador que se registrará con la venta.
type NewGuarantor struct {
	TaxID     string `json:"tax_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

func (NewGuarantor) Kind() GuarantorKind { return GuarantorKindNew }
func (NewGuarantor) sealed()             {}

// Validate exige los campos obligatorios del fiador nuevo.
func (g NewGuarantor) Validate() *domain.ValidationError {
	ve := &domain.ValidationError{}
	required := []struct{ field, value, label string }{
		{"guarantor.tax_id", g.TaxID, "el documento"},
		{"guarantor.first_name", g.FirstName, "los nombres"},
		{"guarantor.last_name", g.LastName, "los apellidos"},
		{"guarantor.address", g.Address, "la dirección"},
		{"guarantor.phone", g.Phone, "el teléfono"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			ve.Add(r.field, "falta "+r.label+" del fiador")
		}
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// guarantorEnvelope forma JSON del fiador con discriminador "kind".
type guarantorEnvelope struct {
	Kind      GuarantorKind `json:"kind"`
	ID        string        `json:"id,omitempty"`
	TaxID     string        `json:"tax_id,omitempty"`
	FirstName string        `json:"first_name,omitempty"`
	LastName  string        `json:"last_name,omitempty"`
	Address   string        `json:"address,omitempty"`
	Phone     string        `json:"phone,omitempty"`
}

// MarshalGuarantor serializa el fiador (nil → null).
func MarshalGuarantor(g Guarantor) ([]byte, error) {
	env, err := toEnvelope(g)
	if err != nil || env == nil {
		return []byte("null"), err
	}
	return json.Marshal(env)
}

// UnmarshalGuarantor lee un fiador con discriminador "kind".
func UnmarshalGuarantor(data []byte) (Guarantor, error) {
	var env *guarantorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return fromEnvelope(env)
}

func toEnvelope(g Guarantor) (*guarantorEnvelope, error) {
	switch v := g.(type) {
	case nil:
		return nil, nil
	case ExistingGuarantor:
		return &guarantorEnvelope{Kind: GuarantorKindExisting, ID: v.ID}, nil
	case NewGuarantor:
		return &guarantorEnvelope{
			Kind: GuarantorKindNew, TaxID: v.TaxID, FirstName: v.FirstName,
			LastName: v.LastName, Address: v.Address, Phone: v.Phone,
		}, nil
	default:
		return nil, fmt.Errorf("%w: fiador de tipo %T", domain.ErrPrecondition, g)
	}
}

func fromEnvelope(env *guarantorEnvelope) (Guarantor, error) {
	if env == nil {
		return nil, nil
	}
	switch env.Kind {
	case GuarantorKindExisting:
		return ExistingGuarantor{ID: env.ID}, nil
	case GuarantorKindNew:
		return NewGuarantor{
			TaxID: env.TaxID, FirstName: env.FirstName, LastName: env.LastName,
			Address: env.Address, Phone: env.Phone,
		}, nil
	default:
		return nil, domain.NewValidationError("guarantor.kind", fmt.Sprintf("tipo de fiador desconocido %q", env.Kind))
	}
}
