package canvas

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClock overrides the time source used for element ids.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

// WithSuffixSource overrides the random suffix appended to batch and
// duplicate ids.
func WithSuffixSource(suffix func() string) FactoryOption {
	return func(f *Factory) {
		if suffix != nil {
			f.suffix = suffix
		}
	}
}

// Factory builds new elements with type-specific defaults. Ids combine the
// type with a nanosecond timestamp that never repeats within one factory.
type Factory struct {
	mu     sync.Mutex
	now    func() time.Time
	suffix func() string
	last   int64
}

// NewFactory constructs a Factory using the wall clock and uuid-based
// suffixes unless overridden.
func NewFactory(options ...FactoryOption) *Factory {
	f := &Factory{
		now:    time.Now,
		suffix: randomSuffix,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Create builds an element of type t at pos. Labels consult the element just
// above pos; placeholders, validation and options come from static per-type
// tables. Unknown types receive a generic "<Type> Field" label and no rules.
// Create never fails.
func (f *Factory) Create(t ElementType, pos Point, existing []Element) Element {
	return f.build(f.NewID(t), t, pos, existing)
}

// CreateBatch is Create with a random id suffix, for callers creating several
// elements within the same instant.
func (f *Factory) CreateBatch(t ElementType, pos Point, existing []Element) Element {
	return f.build(f.BatchID(t), t, pos, existing)
}

// NewID returns "<type>-<nanos>".
func (f *Factory) NewID(t ElementType) string {
	return fmt.Sprintf("%s-%d", idPrefix(t), f.tick())
}

// BatchID returns "<type>-<nanos>-<suffix>".
func (f *Factory) BatchID(t ElementType) string {
	return fmt.Sprintf("%s-%d-%s", idPrefix(t), f.tick(), f.suffix())
}

func (f *Factory) build(id string, t ElementType, pos Point, existing []Element) Element {
	element := Element{
		ID:       id,
		Type:     t,
		Position: pos,
		Size:     SizeFor(t),
	}

	if t.IsBlock() {
		element.Block = &BlockProps{Content: defaultContent[t]}
		return element
	}

	label, ok := contextualLabel(t, pos, existing)
	if !ok {
		label = staticLabel(t)
	}
	field := &FieldProps{
		Label:       label,
		Placeholder: defaultPlaceholders[t],
		HelpText:    defaultHelpText[t],
		Validation:  defaultValidation(t),
	}
	if t.HasOptions() {
		field.Options = append([]string(nil), defaultOptions...)
	}
	if label == "Phone Number" {
		field.Placeholder = "(555) 123-4567"
		field.Validation = &Validation{Kind: ValidationRegex, Pattern: `^[0-9+()\-\s]{7,20}$`}
	}
	element.Field = field
	return element
}

func (f *Factory) tick() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.now().UnixNano()
	if n <= f.last {
		n = f.last + 1
	}
	f.last = n
	return n
}

func idPrefix(t ElementType) string {
	prefix := strings.TrimSpace(string(t))
	if prefix == "" {
		return "element"
	}
	return prefix
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
