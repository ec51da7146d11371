package variant

import "storefront/internal/model"

// State describes how far an attribute selection has progressed.
type State string

const (
	StateNone     State = "none"
	StatePartial  State = "partial"
	StateComplete State = "complete"
)

// Transition is the outcome of changing the selection. NavigateTo is empty when
// there is no variant to navigate to.
type Transition struct {
	State      State                   `json:"state"`
	Selected   model.VariantAttributes `json:"selected"`
	Match      *model.Variant          `json:"match"`
	NavigateTo string                  `json:"navigateTo,omitempty"`
}

// Selection tracks a shopper's in-progress attribute choice over one variant family.
// It is owned by a single caller and is not safe for concurrent use.
type Selection struct {
	variants []model.Variant
	selected model.VariantAttributes
	current  *model.Variant
	state    State
}

// NewSelection starts a selection from the variant or product the page was loaded with.
// A nil initial starts with nothing chosen.
func NewSelection(variants []model.Variant, initial *model.Variant) *Selection {
	s := &Selection{
		variants: variants,
		selected: model.VariantAttributes{},
		state:    StateNone,
	}
	if initial != nil {
		shown := *initial
		s.current = &shown
		s.selected = initial.VariantAttributes.Clone()
		if len(s.selected) > 0 {
			s.state = StateComplete
		}
	}
	return s
}

// State returns the current selection state.
func (s *Selection) State() State { return s.state }

// Selected returns a copy of the selected attributes.
func (s *Selection) Selected() model.VariantAttributes { return s.selected.Clone() }

// Current returns the variant being displayed, which is left unchanged while no
// variant matches the selection.
func (s *Selection) Current() *model.Variant {
	if s.current == nil {
		return nil
	}
	shown := *s.current
	return &shown
}

// Options returns the option matrix for the current selection.
func (s *Selection) Options() []AttributeOptions {
	return OptionMatrix(s.variants, s.selected)
}

// Choose sets attribute to value and re-resolves the full selection.
//
// On a match the selection becomes complete and NavigateTo carries the
// variant's canonical URL. If the match has no identity the transition is still
// applied but NavigateTo is empty and *model.MissingVariantIdentityError is
// returned so the caller can skip navigation. Without a match the state becomes
// partial and the displayed variant is kept.
func (s *Selection) Choose(attribute, value string) (Transition, error) {
	next := s.selected.Clone()
	next[attribute] = value
	return s.apply(next)
}

// Resolve replaces the whole selection at once, as when a client posts its
// complete selection map. It follows the same rules as Choose; an empty map
// returns the selection to the none state.
func (s *Selection) Resolve(selected model.VariantAttributes) (Transition, error) {
	next := selected.Clone()
	if len(next) == 0 {
		s.selected = next
		s.state = StateNone
		return Transition{State: s.state, Selected: next.Clone()}, nil
	}
	return s.apply(next)
}

func (s *Selection) apply(next model.VariantAttributes) (Transition, error) {
	s.selected = next

	match, ok := FindMatchingVariant(s.variants, next)
	if !ok {
		s.state = StatePartial
		return Transition{State: s.state, Selected: next.Clone()}, nil
	}

	s.state = StateComplete
	s.current = &match
	t := Transition{State: s.state, Selected: next.Clone(), Match: s.Current()}

	target, err := GenerateVariantURL(match)
	if err != nil {
		return t, err
	}
	t.NavigateTo = target
	return t, nil
}
