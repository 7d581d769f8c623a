// Package pricing implements the rule evaluation engine: a pure function
// of a service definition and caller inputs producing a price and an
// itemized breakdown.
//
// The engine performs no I/O and mutates no shared state, so it may be
// invoked from any number of concurrent requests without coordination.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"quotient/internal/catalog/models"
)

// Result is the outcome of a successful calculation.
//
// Total is rounded to 2 fraction digits; all intermediate arithmetic is
// exact decimal. Lines always sum to exactly Total.
type Result struct {
	Total     decimal.Decimal
	BasePrice decimal.Decimal
	Lines     []LineItem
}

// LineItem is one row of the detailed breakdown: the contribution of a
// single parameter (or the implicit base×quantity row) in isolation.
type LineItem struct {
	Parameter string
	Value     string
	Cost      decimal.Decimal
}

// Names used for the two synthetic breakdown rows.
const (
	lineBasePrice  = "base_price"
	lineAdjustment = "adjustment"
	minimumPrice   = "minimum price"
)

type multiplierPart struct {
	name     string
	value    string
	modifier decimal.Decimal
}

type fixedPart struct {
	name   string
	value  string
	amount decimal.Decimal
}

// Calculate prices a service against caller inputs.
//
// Combination rule, applied identically whether or not the breakdown is
// rendered:
//
//	total = (base_price × Π multiplier modifiers + Σ fixed amounts) × Π quantities
//	total = max(total, 0)
//
// Validation runs before any monetary computation: every missing required
// parameter is reported in one error. Each parameter type writes to its
// own accumulator, so input order never affects the total.
func Calculate(service *models.Service, parameters []*models.Parameter, inputs Inputs) (*Result, error) {
	ordered := make([]*models.Parameter, len(parameters))
	copy(ordered, parameters)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].Name < ordered[j].Name
	})

	var missing []string
	for _, p := range ordered {
		if p.IsRequired {
			if _, ok := inputs[p.Name]; !ok {
				missing = append(missing, p.Name)
			}
		}
	}
	if len(missing) > 0 {
		return nil, errMissingParameters(missing)
	}

	one := decimal.NewFromInt(1)
	factor := one
	fixed := decimal.Zero
	quantity := one
	var multipliers []multiplierPart
	var fixedParts []fixedPart

	for _, p := range ordered {
		value, ok := inputs[p.Name]
		if !ok {
			if p.IsRequired || p.DefaultValue == nil {
				continue
			}
			value = StringValue(*p.DefaultValue)
		}

		switch p.Type {
		case models.TypeQuantity:
			q, ok := value.Decimal()
			if !ok {
				return nil, errInvalidValue(p.Name, value.String())
			}
			quantity = quantity.Mul(q)

		case models.TypeMultiplier:
			opt, err := lookupOption(p, value.String())
			if err != nil {
				return nil, err
			}
			if opt == nil {
				return nil, errInvalidValue(p.Name, value.String())
			}
			factor = factor.Mul(opt.Modifier)
			multipliers = append(multipliers, multiplierPart{p.Name, value.String(), opt.Modifier})

		case models.TypeFixed:
			opt, err := lookupOption(p, value.String())
			if err != nil {
				return nil, err
			}
			var amount decimal.Decimal
			if opt != nil {
				amount = opt.Modifier
			} else {
				// Permissive fallback: a numeric raw value is the
				// additive amount itself.
				d, ok := value.Decimal()
				if !ok {
					return nil, errInvalidValue(p.Name, value.String())
				}
				amount = d
			}
			fixed = fixed.Add(amount)
			fixedParts = append(fixedParts, fixedPart{p.Name, value.String(), amount})

		default:
			return nil, errUnknownType(p.Name, string(p.Type))
		}
	}

	raw := service.BasePrice.Mul(factor).Add(fixed).Mul(quantity)
	clamped := raw.IsNegative()
	total := raw
	if clamped {
		total = decimal.Zero
	}
	total = total.Round(2)

	lines := buildLines(service.BasePrice, quantity, multipliers, fixedParts, total, clamped)

	return &Result{
		Total:     total,
		BasePrice: service.BasePrice,
		Lines:     lines,
	}, nil
}

// lookupOption finds the single option matching value, nil when absent.
// Two matches mean the stored rules contradict themselves.
func lookupOption(p *models.Parameter, value string) (*models.ParameterOption, error) {
	var found *models.ParameterOption
	for i := range p.Options {
		if p.Options[i].Value == value {
			if found != nil {
				return nil, errAmbiguousOption(p.Name, value)
			}
			found = &p.Options[i]
		}
	}
	return found, nil
}

// buildLines produces the breakdown under the same combination rule as the
// total. The base×quantity row comes first; each multiplier row carries
// its incremental contribution against the chain so far, each fixed row
// its amount scaled by quantity. Rounding residue folds into the base row
// (or a final minimum-price adjustment row when the clamp fired) so the
// rows always sum to exactly the reported total.
func buildLines(base, quantity decimal.Decimal, multipliers []multiplierPart, fixedParts []fixedPart, total decimal.Decimal, clamped bool) []LineItem {
	lines := make([]LineItem, 0, 1+len(multipliers)+len(fixedParts))
	lines = append(lines, LineItem{
		Parameter: lineBasePrice,
		Value:     quantity.String(),
		Cost:      base.Mul(quantity).Round(2),
	})

	running := base
	for _, m := range multipliers {
		next := running.Mul(m.modifier)
		lines = append(lines, LineItem{
			Parameter: m.name,
			Value:     m.value,
			Cost:      next.Sub(running).Mul(quantity).Round(2),
		})
		running = next
	}

	for _, f := range fixedParts {
		lines = append(lines, LineItem{
			Parameter: f.name,
			Value:     f.value,
			Cost:      f.amount.Mul(quantity).Round(2),
		})
	}

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Cost)
	}
	residue := total.Sub(sum)
	if residue.IsZero() {
		return lines
	}
	if clamped {
		return append(lines, LineItem{
			Parameter: lineAdjustment,
			Value:     minimumPrice,
			Cost:      residue,
		})
	}
	lines[0].Cost = lines[0].Cost.Add(residue)
	return lines
}
