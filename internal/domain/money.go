package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeMethod canonicalizes a payment method name so "Cash " and "cash"
// land in the same per-method bucket.
func NormalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// MethodBalances holds an amount per payment method. It is stored as JSONB.
type MethodBalances map[string]decimal.Decimal

// Get returns the balance for method, zero when absent.
func (m MethodBalances) Get(method string) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return m[NormalizeMethod(method)]
}

// Add returns a copy of m with amount added to method.
func (m MethodBalances) Add(method string, amount decimal.Decimal) MethodBalances {
	out := m.Clone()
	key := NormalizeMethod(method)
	out[key] = out[key].Add(amount)
	return out
}

// Clone returns a deep copy; a nil receiver yields an empty map.
func (m MethodBalances) Clone() MethodBalances {
	out := make(MethodBalances, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Total sums every method.
func (m MethodBalances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// Methods returns the method names in sorted order.
func (m MethodBalances) Methods() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value implements driver.Valuer.
func (m MethodBalances) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]decimal.Decimal(m))
}

// Scan implements sql.Scanner.
func (m *MethodBalances) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = MethodBalances{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("MethodBalances.Scan: unsupported type %T", src)
	}
	out := map[string]decimal.Decimal{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("MethodBalances.Scan: %w", err)
	}
	*m = out
	return nil
}

// FeeComponent is a single line of a fee template or a bill.
type FeeComponent struct {
	Name   string          `json:"name" validate:"required,max=120"`
	Amount decimal.Decimal `json:"amount"`
}

// FeeComponents is an ordered list of components stored as JSONB.
type FeeComponents []FeeComponent

// Total returns the sum of component amounts.
func (c FeeComponents) Total() decimal.Decimal {
	total := decimal.Zero
	for _, comp := range c {
		total = total.Add(comp.Amount)
	}
	return total
}

// Clone copies the slice so snapshots never alias a live category.
func (c FeeComponents) Clone() FeeComponents {
	out := make(FeeComponents, len(c))
	copy(out, c)
	return out
}

// Value implements driver.Valuer.
func (c FeeComponents) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FeeComponent(c))
}

// Scan implements sql.Scanner.
func (c *FeeComponents) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = FeeComponents{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("FeeComponents.Scan: unsupported type %T", src)
	}
	var out []FeeComponent
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("FeeComponents.Scan: %w", err)
	}
	*c = out
	return nil
}
