package claim

import (
	"encoding/json"
	"testing"
)

const sampleJSON = `{
	"claim_id": "abc123",
	"place_of_service_code": 11,
	"insurance": {"payer_id": "medicare", "patient_member_id": "pmid456"},
	"patient": {"first_name": "Jane", "last_name": "Doe", "gender": "f", "dob": "1990-01-01"},
	"organization": {"name": "Health Inc"},
	"rendering_provider": {"first_name": "Alice", "last_name": "Smith", "npi": "1234567890"},
	"service_lines": [
		{"service_line_id": "sl1", "procedure_code": "99213", "units": 1, "details": "Office visit",
		 "unit_charge_currency": "USD", "unit_charge_amount": 150.0}
	]
}`

func TestDecodeClaim(t *testing.T) {
	var c Claim
	if err := json.Unmarshal([]byte(sampleJSON), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ClaimID != "abc123" {
		t.Errorf("ClaimID = %q, want abc123", c.ClaimID)
	}
	if c.Insurance.PayerID != "medicare" {
		t.Errorf("PayerID = %q, want medicare", c.Insurance.PayerID)
	}
	if c.Insurance.PatientMemberID != "pmid456" {
		t.Errorf("PatientMemberID = %q, want pmid456", c.Insurance.PatientMemberID)
	}
	if len(c.ServiceLines) != 1 {
		t.Fatalf("ServiceLines len = %d, want 1", len(c.ServiceLines))
	}
	sl := c.ServiceLines[0]
	if sl.ServiceLineID != "sl1" || sl.Units != 1 || sl.UnitChargeAmount != 150.0 {
		t.Errorf("unexpected service line: %+v", sl)
	}
	if got, want := sl.Total(), 150.0; got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}

func TestDecodeMalformedClaim(t *testing.T) {
	var c Claim
	if err := json.Unmarshal([]byte(`{bad}`), &c); err == nil {
		t.Error("expected decode error for malformed JSON")
	}
}
