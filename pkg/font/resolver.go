package font

import (
	"context"
	"fmt"
	"strings"
)

// Tier is the fallback stage that produced a resolution.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierStyle
	TierVariant
	TierWeight
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierStyle:
		return "style"
	case TierVariant:
		return "variant"
	case TierWeight:
		return "weight"
	default:
		return "none"
	}
}

// Query is a requested font.
type Query struct {
	Family  string `json:"family"`
	Weight  int    `json:"weight"`
	Style   string `json:"style"`
	Variant string `json:"variant"`
}

// Normalize lowercases the query and fills defaults.
func (q Query) Normalize() Query {
	q.Family = NormalizeFamily(q.Family)
	if q.Weight <= 0 {
		q.Weight = DefaultWeight
	}

	q.Style = strings.ToLower(strings.TrimSpace(q.Style))
	if q.Style == "" || q.Style == "regular" {
		q.Style = DefaultStyle
	}

	q.Variant = strings.ToLower(strings.TrimSpace(q.Variant))
	if q.Variant == "" || q.Variant == "normal" {
		q.Variant = DefaultVariant
	}
	return q
}

func (q Query) String() string {
	return fmt.Sprintf("%s/%d/%s/%s", q.Family, q.Weight, q.Style, q.Variant)
}

// tier is one stage of the cascade: a filter and the ordering among its matches.
type tier struct {
	tier    Tier
	where   string
	orderBy string
	args    func(q Query) []any
}

var tiers = []tier{
	{
		tier:    TierExact,
		where:   "`family` = ? AND `weight` = ? AND `style` = ? AND `variant` = ?",
		orderBy: formatOrder + ", `path`",
		args: func(q Query) []any {
			return []any{q.Family, q.Weight, q.Style, q.Variant}
		},
	},
	{
		tier:    TierStyle,
		where:   "`family` = ? AND `weight` = ? AND `variant` = ?",
		orderBy: "`style` = ? DESC, " + formatOrder + ", `path`",
		args: func(q Query) []any {
			return []any{q.Family, q.Weight, q.Variant, q.Style}
		},
	},
	{
		tier:    TierVariant,
		where:   "`family` = ? AND `weight` = ?",
		orderBy: "`variant` = ? DESC, `style` = ? DESC, " + formatOrder + ", `path`",
		args: func(q Query) []any {
			return []any{q.Family, q.Weight, q.Variant, q.Style}
		},
	},
	{
		tier:    TierWeight,
		where:   "`family` = ?",
		orderBy: "ABS(`weight` - ?), `variant` = ? DESC, `style` = ? DESC, " + formatOrder + ", `weight`, `path`",
		args: func(q Query) []any {
			return []any{q.Family, q.Weight, q.Variant, q.Style}
		},
	},
}

// Resolver picks the best indexed record for a query.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver reading from registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve runs the cascade exact, relaxed style, relaxed variant, nearest
// weight and returns the first match. ErrNotFound means the family has no
// records at all.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Record, Tier, error) {
	q = q.Normalize()
	if q.Family == "" {
		return Record{}, TierNone, fmt.Errorf("%w: empty family", ErrNotFound)
	}

	for _, t := range tiers {
		rec, ok, err := r.registry.first(ctx, t.where, t.orderBy, t.args(q)...)
		if err != nil {
			return Record{}, TierNone, fmt.Errorf("resolve %s: %w", q, err)
		}
		if ok {
			resolutions.Inc(t.tier.String())
			return rec, t.tier, nil
		}
	}

	resolutions.Inc(TierNone.String())
	return Record{}, TierNone, fmt.Errorf("%w: %s", ErrNotFound, q)
}
