package clearinghouse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/claimwave/adjudicator/claim"
)

// RuleAction is what happens when a routing rule matches
// (SPEC_FULL.md "Domain Stack": routing-rule overrides, adapted from
// the teacher's routing.Engine).
type RuleAction string

const (
	// ActionRoute redirects the claim to a different payer than the
	// one named in its insurance block (e.g. an organization-specific
	// carve-out arrangement).
	ActionRoute RuleAction = "route"
	// ActionQuarantine names a rule that sends claims to a catch-all
	// payer, e.g. ones whose payer_id would otherwise be unknown and
	// stay Submitted forever (spec.md §9). Resolve treats it exactly
	// like ActionRoute: the rule's Conditions alone decide which
	// claims it redirects; whether their payer_id is registered is not
	// checked.
	ActionQuarantine RuleAction = "quarantine"
)

// ConditionOp is a condition comparison operator. Only equality and
// containment are meaningful over claim fields; this is a strict
// subset of the teacher's ConditionOp set.
type ConditionOp string

const (
	OpEquals   ConditionOp = "eq"
	OpContains ConditionOp = "contains"
)

// Condition is one field comparison evaluated against a claim.
type Condition struct {
	Field    string      `json:"field"` // "payer_id", "organization_name", or "patient_member_id"
	Operator ConditionOp `json:"op"`
	Value    string      `json:"value"`
}

// Rule is a priority-ordered routing override. All Conditions must
// match (AND) for the rule to fire.
type Rule struct {
	Name       string      `json:"name"`
	Priority   int         `json:"priority"` // lower evaluates first
	Conditions []Condition `json:"conditions"`
	Action     RuleAction  `json:"action"`
	Target     string      `json:"target"` // destination payer_id
}

// RuleSet is the Clearinghouse's optional routing-override table.
// An empty RuleSet (the default) leaves routing exactly as spec.md
// §4.2 describes it — this is additive, not a behavior change.
type RuleSet struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// ParseRuleSet builds a RuleSet from a JSON array of Rule, the shape
// an operator supplies via CLAIMFLOW_RULES (config.Load). An empty or
// blank input yields an empty RuleSet, reproducing the default
// routing behavior.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	rs := NewRuleSet()
	if len(strings.TrimSpace(string(data))) == 0 {
		return rs, nil
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("clearinghouse: parsing rule set: %w", err)
	}
	for _, r := range rules {
		rs.Add(r)
	}
	return rs, nil
}

// Add appends a rule and keeps the set sorted by ascending Priority.
func (rs *RuleSet) Add(r Rule) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules = append(rs.rules, r)
	sort.SliceStable(rs.rules, func(i, j int) bool {
		return rs.rules[i].Priority < rs.rules[j].Priority
	})
}

// Resolve evaluates the rule set against c and, if some rule matches,
// returns the overridden payer_id and true. The first matching rule
// (by ascending priority) wins.
func (rs *RuleSet) Resolve(c *claim.Claim) (string, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	for _, r := range rs.rules {
		if !allMatch(r.Conditions, c) {
			continue
		}
		switch r.Action {
		case ActionRoute, ActionQuarantine:
			return r.Target, true
		}
	}
	return "", false
}

func allMatch(conditions []Condition, c *claim.Claim) bool {
	for _, cond := range conditions {
		if !match(cond, c) {
			return false
		}
	}
	return true
}

func match(cond Condition, c *claim.Claim) bool {
	var field string
	switch cond.Field {
	case "payer_id":
		field = c.Insurance.PayerID
	case "patient_member_id":
		field = c.Insurance.PatientMemberID
	case "organization_name":
		field = c.Organization.Name
	default:
		return false
	}
	switch cond.Operator {
	case OpEquals:
		return field == cond.Value
	case OpContains:
		return strings.Contains(field, cond.Value)
	default:
		return false
	}
}
