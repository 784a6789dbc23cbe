// README: Rule document handling: defaults, deep merge and decoding into a RuleSet.
package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"logit/internal/types"
)

// Document keys understood by DecodeRuleSet. Unknown keys are ignored.
const (
	KeyVehicleMinimums  = "vehicle_minimums"
	KeyFixedCharges     = "fixed_charges"
	KeyRoundingMultiple = "rounding_multiple"
	KeyCurrency         = "currency"
)

// DefaultDocument returns the system default rules: no minimums, no fixed
// charges, rounding disabled. Every call returns a fresh copy.
func DefaultDocument() map[string]any {
	return map[string]any{
		KeyVehicleMinimums:  map[string]any{},
		KeyFixedCharges:     []any{},
		KeyRoundingMultiple: json.Number("0"),
		KeyCurrency:         types.DefaultCurrency,
	}
}

// DefaultRuleSet is DefaultDocument decoded.
func DefaultRuleSet() RuleSet {
	rs, err := DecodeRuleSet("default", DefaultDocument())
	if err != nil {
		panic(err)
	}
	return rs
}

// ParseDocument reads a JSON object, keeping numbers exact.
func ParseDocument(subject string, r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &types.ConfigurationError{Subject: subject, Reason: "document is not a JSON object", Err: err}
	}
	if doc == nil {
		return nil, &types.ConfigurationError{Subject: subject, Reason: "document is null"}
	}
	return doc, nil
}

// ParseDocumentBytes is ParseDocument over a byte slice.
func ParseDocumentBytes(subject string, data []byte) (map[string]any, error) {
	return ParseDocument(subject, bytes.NewReader(data))
}

// Merge overlays override on base and returns a new document. Nested objects
// merge key by key, scalars replace, lists replace wholesale. Neither input is
// modified.
func Merge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, v := range override {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = Merge(bm, om)
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Merge(t, nil)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	default:
		return v
	}
}

// DecodeRuleSet validates a merged document. Any malformed key fails with a
// *types.ConfigurationError naming the client and the key.
func DecodeRuleSet(clientID string, doc map[string]any) (RuleSet, error) {
	rs := RuleSet{
		VehicleMinimums:  map[string]decimal.Decimal{},
		FixedCharges:     []FixedCharge{},
		RoundingMultiple: decimal.Zero,
		Currency:         types.DefaultCurrency,
	}
	confErr := func(key, reason string) error {
		return &types.ConfigurationError{Subject: clientID, Key: key, Reason: reason}
	}

	if raw, ok := doc[KeyVehicleMinimums]; ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return RuleSet{}, confErr(KeyVehicleMinimums, "expected an object of vehicle type to amount")
		}
		for vehicle, v := range m {
			key := KeyVehicleMinimums + "." + vehicle
			amount, err := toDecimal(v)
			if err != nil {
				return RuleSet{}, confErr(key, err.Error())
			}
			if amount.IsNegative() {
				return RuleSet{}, confErr(key, "minimum must be non-negative")
			}
			rs.VehicleMinimums[vehicle] = amount
		}
	}

	if raw, ok := doc[KeyFixedCharges]; ok && raw != nil {
		charges, err := decodeFixedCharges(raw)
		if err != nil {
			return RuleSet{}, confErr(KeyFixedCharges, err.Error())
		}
		rs.FixedCharges = charges
	}

	if raw, ok := doc[KeyRoundingMultiple]; ok && raw != nil {
		m, err := toDecimal(raw)
		if err != nil {
			return RuleSet{}, confErr(KeyRoundingMultiple, err.Error())
		}
		rs.RoundingMultiple = m
	}

	if raw, ok := doc[KeyCurrency]; ok && raw != nil {
		cur, ok := raw.(string)
		if !ok || len(strings.TrimSpace(cur)) != 3 {
			return RuleSet{}, confErr(KeyCurrency, "expected a 3-letter currency code")
		}
		rs.Currency = strings.ToUpper(strings.TrimSpace(cur))
	}

	return rs, nil
}

// decodeFixedCharges accepts either an ordered list of {"name","amount"}
// objects or an object of name to amount. The object form is ordered by name.
func decodeFixedCharges(raw any) ([]FixedCharge, error) {
	switch t := raw.(type) {
	case []any:
		out := make([]FixedCharge, 0, len(t))
		for i, e := range t {
			obj, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected an object with name and amount", i)
			}
			name, _ := obj["name"].(string)
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("entry %d: missing name", i)
			}
			amount, err := toDecimal(obj["amount"])
			if err != nil {
				return nil, fmt.Errorf("entry %d (%s): %v", i, name, err)
			}
			if amount.IsNegative() {
				return nil, fmt.Errorf("entry %d (%s): amount must be non-negative", i, name)
			}
			out = append(out, FixedCharge{Name: name, Amount: amount})
		}
		return out, nil
	case map[string]any:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]FixedCharge, 0, len(names))
		for _, name := range names {
			amount, err := toDecimal(t[name])
			if err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
			if amount.IsNegative() {
				return nil, fmt.Errorf("%s: amount must be non-negative", name)
			}
			out = append(out, FixedCharge{Name: name, Amount: amount})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list or an object, got %T", raw)
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid number %q", n.String())
		}
		return d, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("number must be finite")
		}
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case decimal.Decimal:
		return n, nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing number")
	default:
		return decimal.Zero, fmt.Errorf("expected a number, got %T", v)
	}
}
