package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"logit/internal/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPostprocess(t *testing.T) {
	truckRules := RuleSet{
		VehicleMinimums:  map[string]decimal.Decimal{"7t_truck": d("300")},
		FixedCharges:     []FixedCharge{{Name: "doc_fee", Amount: d("15")}},
		RoundingMultiple: d("5"),
	}

	tests := []struct {
		name          string
		raw           string
		vehicle       string
		rules         RuleSet
		wantMinimum   string
		wantFixed     string
		wantFinal     string
		wantApplied   bool
		wantNumCharge int
	}{
		{
			name:          "Minimum raises the rate (reference example)",
			raw:           "250.00",
			vehicle:       "7t_truck",
			rules:         truckRules,
			wantMinimum:   "300",
			wantFixed:     "315",
			wantFinal:     "315",
			wantApplied:   true,
			wantNumCharge: 1,
		},
		{
			name:          "Rate above minimum is kept",
			raw:           "412.30",
			vehicle:       "7t_truck",
			rules:         truckRules,
			wantMinimum:   "412.3",
			wantFixed:     "427.3",
			wantFinal:     "425",
			wantApplied:   false,
			wantNumCharge: 1,
		},
		{
			name:          "Rate equal to minimum is not flagged",
			raw:           "300",
			vehicle:       "7t_truck",
			rules:         truckRules,
			wantMinimum:   "300",
			wantFixed:     "315",
			wantFinal:     "315",
			wantApplied:   false,
			wantNumCharge: 1,
		},
		{
			name:          "Tie rounds half up (302.5 + 15 -> 320)",
			raw:           "302.5",
			vehicle:       "7t_truck",
			rules:         truckRules,
			wantMinimum:   "302.5",
			wantFixed:     "317.5",
			wantFinal:     "320",
			wantApplied:   false,
			wantNumCharge: 1,
		},
		{
			name:          "Below half rounds down",
			raw:           "302.49",
			vehicle:       "7t_truck",
			rules:         truckRules,
			wantMinimum:   "302.49",
			wantFixed:     "317.49",
			wantFinal:     "315",
			wantApplied:   false,
			wantNumCharge: 1,
		},
		{
			name:          "Unknown vehicle has no minimum",
			raw:           "120",
			vehicle:       "pickup",
			rules:         truckRules,
			wantMinimum:   "120",
			wantFixed:     "135",
			wantFinal:     "135",
			wantApplied:   false,
			wantNumCharge: 1,
		},
		{
			name:    "Rounding disabled with zero multiple",
			raw:     "101.237",
			vehicle: "van",
			rules: RuleSet{
				FixedCharges: []FixedCharge{{Name: "a", Amount: d("1.10")}, {Name: "b", Amount: d("2.20")}},
			},
			wantMinimum:   "101.24",
			wantFixed:     "104.54",
			wantFinal:     "104.54",
			wantApplied:   false,
			wantNumCharge: 2,
		},
		{
			name:    "Negative multiple disables rounding",
			raw:     "99.99",
			vehicle: "van",
			rules: RuleSet{
				RoundingMultiple: d("-10"),
			},
			wantMinimum: "99.99",
			wantFixed:   "99.99",
			wantFinal:   "99.99",
		},
		{
			name:    "Fractional multiple",
			raw:     "10.12",
			vehicle: "van",
			rules: RuleSet{
				RoundingMultiple: d("0.25"),
			},
			wantMinimum: "10.12",
			wantFixed:   "10.12",
			wantFinal:   "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Postprocess(d(tt.raw), tt.vehicle, tt.rules)
			if err != nil {
				t.Fatalf("Postprocess() error = %v", err)
			}
			if !got.RawRate.Equal(d(tt.raw)) {
				t.Errorf("RawRate = %s, want %s", got.RawRate, tt.raw)
			}
			if !got.AfterMinimum.Equal(d(tt.wantMinimum)) {
				t.Errorf("AfterMinimum = %s, want %s", got.AfterMinimum, tt.wantMinimum)
			}
			if !got.AfterFixedCharges.Equal(d(tt.wantFixed)) {
				t.Errorf("AfterFixedCharges = %s, want %s", got.AfterFixedCharges, tt.wantFixed)
			}
			if !got.FinalRate.Equal(d(tt.wantFinal)) {
				t.Errorf("FinalRate = %s, want %s", got.FinalRate, tt.wantFinal)
			}
			if got.VehicleMinimumApplied != tt.wantApplied {
				t.Errorf("VehicleMinimumApplied = %v, want %v", got.VehicleMinimumApplied, tt.wantApplied)
			}
			if len(got.FixedCharges) != tt.wantNumCharge {
				t.Errorf("len(FixedCharges) = %d, want %d", len(got.FixedCharges), tt.wantNumCharge)
			}
			if !got.RoundedMultiple.Equal(tt.rules.RoundingMultiple) {
				t.Errorf("RoundedMultiple = %s, want %s", got.RoundedMultiple, tt.rules.RoundingMultiple)
			}
		})
	}
}

func TestPostprocess_NegativeRateRejected(t *testing.T) {
	_, err := Postprocess(d("-0.01"), "van", DefaultRuleSet())
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "raw_rate" {
		t.Errorf("Field = %q, want raw_rate", verr.Field)
	}
}

func TestPostprocess_EmptyVehicleTypeNeedsLookup(t *testing.T) {
	rules := RuleSet{VehicleMinimums: map[string]decimal.Decimal{"van": d("50")}}
	_, err := Postprocess(d("10"), " ", rules)
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Without minimums there is nothing to look up.
	got, err := Postprocess(d("10"), "", DefaultRuleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.FinalRate.Equal(d("10")) {
		t.Errorf("FinalRate = %s, want 10", got.FinalRate)
	}
}

func TestPostprocess_IdentityWithDefaults(t *testing.T) {
	rules := DefaultRuleSet()
	for _, raw := range []string{"0", "0.01", "1", "250.5", "999999.99", "1234.56"} {
		got, err := Postprocess(d(raw), "7t_truck", rules)
		if err != nil {
			t.Fatalf("Postprocess(%s) error = %v", raw, err)
		}
		if !got.FinalRate.Equal(d(raw)) {
			t.Errorf("Postprocess(%s).FinalRate = %s, want identity", raw, got.FinalRate)
		}
		if got.VehicleMinimumApplied {
			t.Errorf("Postprocess(%s) flagged a minimum with default rules", raw)
		}
	}
}

func TestPostprocess_MinimumIsMonotonic(t *testing.T) {
	raw := d("200")
	prev := decimal.Zero
	for _, m := range []string{"0", "100", "199.99", "200", "250", "400", "400.01"} {
		rules := RuleSet{VehicleMinimums: map[string]decimal.Decimal{"van": d(m)}}
		got, err := Postprocess(raw, "van", rules)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.AfterMinimum.LessThan(prev) {
			t.Errorf("minimum %s decreased AfterMinimum: %s < %s", m, got.AfterMinimum, prev)
		}
		prev = got.AfterMinimum
	}
}

func TestPostprocess_FixedChargeIsMonotonic(t *testing.T) {
	base := RuleSet{FixedCharges: []FixedCharge{{Name: "doc_fee", Amount: d("15")}}}
	more := RuleSet{FixedCharges: append([]FixedCharge{}, base.FixedCharges...)}
	more.FixedCharges = append(more.FixedCharges, FixedCharge{Name: "waiting", Amount: d("0")}, FixedCharge{Name: "customs", Amount: d("60")})

	a, _ := Postprocess(d("100"), "van", base)
	b, _ := Postprocess(d("100"), "van", more)
	if b.AfterFixedCharges.LessThan(a.AfterFixedCharges) {
		t.Errorf("adding charges decreased AfterFixedCharges: %s < %s", b.AfterFixedCharges, a.AfterFixedCharges)
	}
}

func TestPostprocess_NoDriftAcrossManyCharges(t *testing.T) {
	rules := RuleSet{}
	for i := 0; i < 10; i++ {
		rules.FixedCharges = append(rules.FixedCharges, FixedCharge{Name: "c", Amount: d("0.1")})
	}
	got, err := Postprocess(d("0.2"), "van", rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AfterFixedCharges.Equal(d("1.2")) {
		t.Errorf("AfterFixedCharges = %s, want exactly 1.2", got.AfterFixedCharges)
	}
}

func TestRoundToMultiple_Idempotent(t *testing.T) {
	for _, tc := range []struct{ x, m string }{
		{"317.5", "5"}, {"12.345", "0.05"}, {"1001", "10"}, {"0", "5"}, {"7.77", "0.25"},
	} {
		once := RoundToMultiple(d(tc.x), d(tc.m))
		twice := RoundToMultiple(once, d(tc.m))
		if !once.Equal(twice) {
			t.Errorf("RoundToMultiple(%s, %s) not idempotent: %s then %s", tc.x, tc.m, once, twice)
		}
	}
}

// fakeStore is an in-memory RuleStore.
type fakeStore struct {
	docs map[string]map[string]any
	err  error
}

func (f *fakeStore) Get(_ context.Context, clientID string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[clientID]
	if !ok {
		return nil, ErrRulesNotFound
	}
	return doc, nil
}

func TestService_RulesForClient(t *testing.T) {
	store := &fakeStore{docs: map[string]map[string]any{
		"acme": {
			"vehicle_minimums":  map[string]any{"7t_truck": 300.0},
			"fixed_charges":     []any{map[string]any{"name": "doc_fee", "amount": 15.0}},
			"rounding_multiple": 5.0,
		},
		"broken": {
			"vehicle_minimums": map[string]any{"7t_truck": "three hundred"},
		},
	}}
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	rules, err := svc.RulesForClient(ctx, "acme")
	if err != nil {
		t.Fatalf("RulesForClient(acme) error = %v", err)
	}
	if !rules.MinimumFor("7t_truck").Equal(d("300")) {
		t.Errorf("minimum = %s, want 300", rules.MinimumFor("7t_truck"))
	}
	if rules.Currency != "AED" {
		t.Errorf("Currency = %q, want default AED", rules.Currency)
	}

	rules, err = svc.RulesForClient(ctx, "unknown")
	if err != nil {
		t.Fatalf("RulesForClient(unknown) error = %v", err)
	}
	if len(rules.VehicleMinimums) != 0 || len(rules.FixedCharges) != 0 || !rules.RoundingMultiple.IsZero() {
		t.Errorf("expected pure defaults, got %+v", rules)
	}

	_, err = svc.RulesForClient(ctx, "broken")
	var cerr *types.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cerr.Subject != "broken" || cerr.Key != "vehicle_minimums.7t_truck" {
		t.Errorf("error names %q/%q, want broken/vehicle_minimums.7t_truck", cerr.Subject, cerr.Key)
	}

	_, err = svc.RulesForClient(ctx, "")
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty client id, got %v", err)
	}
}

func TestService_StoreErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&fakeStore{err: boom}, nil, nil)
	_, err := svc.RulesForClient(context.Background(), "acme")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestService_Apply(t *testing.T) {
	store := &fakeStore{docs: map[string]map[string]any{
		"acme": {
			"vehicle_minimums":  map[string]any{"7t_truck": 300.0},
			"fixed_charges":     map[string]any{"doc_fee": 15.0},
			"rounding_multiple": 5.0,
		},
	}}
	svc := NewService(store, nil, nil)

	bd, rules, err := svc.Apply(context.Background(), "acme", d("250"), "7t_truck")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bd.FinalRate.Equal(d("315")) || !bd.VehicleMinimumApplied {
		t.Errorf("unexpected breakdown %+v", bd)
	}
	if !rules.RoundingMultiple.Equal(d("5")) {
		t.Errorf("rules.RoundingMultiple = %s, want 5", rules.RoundingMultiple)
	}
}

func TestService_NilStoreServesDefaults(t *testing.T) {
	svc := NewService(nil, nil, nil)
	bd, _, err := svc.Apply(context.Background(), "anyone", d("42.42"), "van")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bd.FinalRate.Equal(d("42.42")) {
		t.Errorf("FinalRate = %s, want 42.42", bd.FinalRate)
	}
}
