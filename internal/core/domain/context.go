package domain

// OccupancyStatus is the seller-declared occupancy of the sold lot.
type OccupancyStatus string

const (
	OccupancyUnknown       OccupancyStatus = ""
	OccupancyOwnerOccupied OccupancyStatus = "owner_occupied"
	OccupancyRented        OccupancyStatus = "rented"
	OccupancyVacant        OccupancyStatus = "vacant"
)

// Questionnaire carries prior seller answers. Each recognized field has a
// defined effect on the extraction prompt; adding a field means adding a
// clause in prompt.QuestionnaireBlock, checked at compile time.
type Questionnaire struct {
	Occupancy            OccupancyStatus `json:"occupancy,omitempty"`
	SecondaryAssociation *bool           `json:"secondary_association,omitempty"`
	PrivateWorksDone     *bool           `json:"private_works_done,omitempty"`
	Mortgage             *bool           `json:"mortgage,omitempty"`
	PriorClaims          *bool           `json:"prior_claims,omitempty"`
	TaxRegime            string          `json:"tax_regime,omitempty"`
}

// Empty reports whether no answer was supplied at all.
func (q Questionnaire) Empty() bool {
	return q.Occupancy == OccupancyUnknown &&
		q.SecondaryAssociation == nil &&
		q.PrivateWorksDone == nil &&
		q.Mortgage == nil &&
		q.PriorClaims == nil &&
		q.TaxRegime == ""
}

// ExtractionContext frames one extraction request: the lot(s) actually
// being sold, the property address, and optional questionnaire answers.
// Read-only; constructed once per request and never persisted here.
type ExtractionContext struct {
	CaseID          string        `json:"case_id,omitempty"`
	LotNumber       string        `json:"lot_number,omitempty"`
	PropertyAddress string        `json:"property_address,omitempty"`
	Questionnaire   Questionnaire `json:"questionnaire,omitempty"`
}
