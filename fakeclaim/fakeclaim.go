// Package fakeclaim generates synthetic claims for seeding a
// simulation run, grounded on original_source/src/json_faker.rs's
// fake_payer_claim/write_fake_claims_jsonl. The example pack carries
// no Go faker library, so this uses math/rand directly against small
// hardcoded word lists (documented as a stdlib choice in DESIGN.md).
package fakeclaim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/claimwave/adjudicator/claim"
)

var payerIDs = []string{"medicare", "united_health_group", "anthem"}
var genders = []string{"m", "f", "o"}
var states = []string{"CA", "NY", "TX", "FL", "WA", "IL", "PA", "OH"}
var firstNames = []string{"James", "Mary", "Robert", "Linda", "Michael", "Patricia", "Sam", "Jordan"}
var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
var words = []string{"office", "visit", "lab", "panel", "screening", "consult", "followup", "imaging"}

// Generator produces fake claims using a private random source, so
// multiple generators can be used concurrently without interfering
// with each other or the global math/rand state.
type Generator struct {
	rng *rand.Rand
	seq int64
}

// NewGenerator builds a Generator seeded from seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns one synthetic claim with a unique claim_id.
func (g *Generator) Next() claim.Claim {
	g.seq++
	claimID := fmt.Sprintf("clm-%08d-%04d", g.seq, g.rng.Intn(10000))

	street := fmt.Sprintf("%d %s St", 100+g.rng.Intn(9000), g.pick(words))
	city := g.pick(lastNames) // stand-in for a city name, matches the teacher's reuse of name generators across fields
	state := g.pick(states)
	zip := fmt.Sprintf("%05d", g.rng.Intn(100000))
	country := "USA"
	email := fmt.Sprintf("%s.%s@example.com", g.pick(firstNames), g.pick(lastNames))

	billingNPI := fmt.Sprintf("%010d", g.rng.Int63n(1e10))
	ein := fmt.Sprintf("%02d-%06d", g.rng.Intn(100), g.rng.Intn(1_000_000))
	contactFirst := g.pick(firstNames)
	contactLast := g.pick(lastNames)
	phone := fmt.Sprintf("555-%04d", g.rng.Intn(10000))

	dob := fmt.Sprintf("%04d-%02d-%02d", 1950+g.rng.Intn(61), 1+g.rng.Intn(12), 1+g.rng.Intn(28))

	units := 1 + g.rng.Intn(4)
	unitCharge := 50.0 + g.rng.Float64()*450.0
	doNotBill := g.rng.Intn(2) == 0
	modifiers := []string{g.pick(words) + g.pick(words)}

	return claim.Claim{
		ClaimID:            claimID,
		PlaceOfServiceCode: 10 + g.rng.Intn(90),
		Insurance: claim.Insurance{
			PayerID:         g.pick(payerIDs),
			PatientMemberID: fmt.Sprintf("pmid-%08d", g.rng.Intn(1e8)),
		},
		Patient: claim.Patient{
			FirstName: g.pick(firstNames),
			LastName:  g.pick(lastNames),
			Gender:    g.pick(genders),
			DOB:       dob,
			Email:     &email,
			Address: &claim.Address{
				Street:  &street,
				City:    &city,
				State:   &state,
				Zip:     &zip,
				Country: &country,
			},
		},
		Organization: claim.Organization{
			Name:       g.pick(lastNames) + " Medical Group",
			BillingNPI: &billingNPI,
			EIN:        &ein,
			Contact: &claim.Contact{
				FirstName:   &contactFirst,
				LastName:    &contactLast,
				PhoneNumber: &phone,
			},
			Address: &claim.Address{
				Street:  &street,
				City:    &city,
				State:   &state,
				Zip:     &zip,
				Country: &country,
			},
		},
		RenderingProvider: claim.Provider{
			FirstName: g.pick(firstNames),
			LastName:  g.pick(lastNames),
			NPI:       fmt.Sprintf("%010d", g.rng.Int63n(1e10)),
		},
		ServiceLines: []claim.ServiceLine{
			{
				ServiceLineID:      fmt.Sprintf("sl-%08d", g.rng.Intn(1e8)),
				ProcedureCode:      fmt.Sprintf("%05d", g.rng.Intn(100000)),
				Units:              units,
				Details:            g.pick(words) + " " + g.pick(words),
				UnitChargeCurrency: "USD",
				UnitChargeAmount:   unitCharge,
				Modifiers:          modifiers,
				DoNotBill:          &doNotBill,
			},
		},
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// WriteJSONL writes n fake claims as newline-delimited JSON to path,
// mirroring write_fake_claims_jsonl.
func WriteJSONL(path string, n int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating seed file %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	gen := NewGenerator(seed)
	for i := 0; i < n; i++ {
		c := gen.Next()
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling fake claim: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}
