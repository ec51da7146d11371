package coupon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rule is one ledger entry.
type Rule struct {
	Code  string
	Kind  Kind
	Value decimal.Decimal
}

// Amount returns the discount the rule grants against subtotal, rounded to 2 dp.
// A fixed discount never exceeds the subtotal.
func (r Rule) Amount(subtotal float64) float64 {
	base := decimal.NewFromFloat(subtotal)
	if base.IsNegative() {
		base = decimal.Zero
	}

	var amount decimal.Decimal
	switch r.Kind {
	case KindFixed:
		amount = decimal.Min(r.Value, base)
	case KindPercent:
		amount = base.Mul(r.Value).Div(hundred)
	}
	return amount.Round(2).InexactFloat64()
}

// ParseRule parses a ledger line of the form CODE,kind,value.
func ParseRule(line string) (Rule, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return Rule{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	code := strings.TrimSpace(fields[0])
	if code == "" {
		return Rule{}, fmt.Errorf("empty coupon code")
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(fields[1])))
	if kind != KindFixed && kind != KindPercent {
		return Rule{}, fmt.Errorf("unknown coupon kind %q", fields[1])
	}

	value, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return Rule{}, fmt.Errorf("invalid coupon value %q: %w", fields[2], err)
	}
	if !value.IsPositive() {
		return Rule{}, fmt.Errorf("coupon value must be positive")
	}
	if kind == KindPercent && value.GreaterThan(hundred) {
		return Rule{}, fmt.Errorf("percent coupon value exceeds 100")
	}

	return Rule{Code: code, Kind: kind, Value: value}, nil
}

// MapLedger implements Ledger using a map for O(1) lookups.
type MapLedger struct {
	rules map[string]Rule
}

// NewMapLedger creates a new map-based ledger.
func NewMapLedger(capacity int) *MapLedger {
	return &MapLedger{
		rules: make(map[string]Rule, capacity),
	}
}

func (l *MapLedger) Lookup(code string) (Rule, bool) {
	r, ok := l.rules[code]
	return r, ok
}

func (l *MapLedger) Rules() []Rule {
	out := make([]Rule, 0, len(l.rules))
	for _, r := range l.rules {
		out = append(out, r)
	}
	return out
}

func (l *MapLedger) Size() int {
	return len(l.rules)
}

// Add stores r, replacing any rule with the same code.
func (l *MapLedger) Add(r Rule) {
	l.rules[r.Code] = r
}

// readLedger scans ledger lines from r. Malformed lines are skipped and counted.
func readLedger(ctx context.Context, r io.Reader, logger zerolog.Logger) (*MapLedger, int, error) {
	ledger := NewMapLedger(1024)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo, skipped := 0, 0
	for scanner.Scan() {
		lineNo++
		if lineNo%100_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, skipped, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := ParseRule(line)
		if err != nil {
			skipped++
			logger.Debug().Err(err).Int("line", lineNo).Msg("skipping malformed ledger line")
			continue
		}
		ledger.Add(rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return ledger, skipped, nil
}
