// Package claim defines the claim record the pipeline treats as an
// opaque carrier (spec.md §3): the core only reads claim_id, the
// insurance block, and the service lines. Everything else is
// pass-through data the core never interprets.
package claim

// Claim is a request for payment describing patient, provider, and
// service lines. Grounded on original_source/src/schema.rs's
// PayerClaim.
type Claim struct {
	ClaimID            string       `json:"claim_id"`
	PlaceOfServiceCode int          `json:"place_of_service_code"`
	Insurance          Insurance    `json:"insurance"`
	Patient            Patient      `json:"patient"`
	Organization       Organization `json:"organization"`
	RenderingProvider  Provider     `json:"rendering_provider"`
	ServiceLines       []ServiceLine `json:"service_lines"`
}

// Insurance carries the payer routing key and the patient's member id
// used as the Reporter's patient-financials key (spec.md §3).
type Insurance struct {
	PayerID         string `json:"payer_id"`
	PatientMemberID string `json:"patient_member_id"`
}

// Patient, Organization, Provider, Address, and Contact are carried
// opaque pass-through fields (spec.md §3: "other descriptive fields
// the core does not interpret"), kept from original_source/schema.rs
// to reproduce the full record shape a real claim would carry.
type Patient struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender"`
	DOB       string   `json:"dob"`
	Email     *string  `json:"email,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

type Organization struct {
	Name       string   `json:"name"`
	BillingNPI *string  `json:"billing_npi,omitempty"`
	EIN        *string  `json:"ein,omitempty"`
	Contact    *Contact `json:"contact,omitempty"`
	Address    *Address `json:"address,omitempty"`
}

type Provider struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	NPI       string `json:"npi"`
}

type Address struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Country *string `json:"country,omitempty"`
}

type Contact struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// ServiceLine is one billable item inside a claim (spec.md §3): a
// line id, a non-negative unit count, and a non-negative unit charge.
// Modifiers and DoNotBill are carried opaque, matching schema.rs.
type ServiceLine struct {
	ServiceLineID      string   `json:"service_line_id"`
	ProcedureCode      string   `json:"procedure_code"`
	Units              int      `json:"units"`
	Details            string   `json:"details"`
	UnitChargeCurrency string   `json:"unit_charge_currency"`
	UnitChargeAmount   float64  `json:"unit_charge_amount"`
	Modifiers          []string `json:"modifiers,omitempty"`
	DoNotBill          *bool    `json:"do_not_bill,omitempty"`
}

// Total returns units * unit_charge_amount for the service line.
func (sl ServiceLine) Total() float64 {
	return float64(sl.Units) * sl.UnitChargeAmount
}
