package spec

import (
	"fmt"

	"github.com/olivier-w/mechanics/internal/spring"
)

// DirectionalBuilder assembles a DirectionalMotionSpec from the Min side to
// the Max side:
//
//	d, err := NewDirectionalBuilder(Zero).
//		ToBreakpoint(10, WithKey(open)).JumpTo(1).ContinueWithTargetValue(2).
//		ToBreakpoint(20).ContinueWith(One).
//		Build()
//
// The first error is kept and returned by Build; later calls are no-ops.
type DirectionalBuilder struct {
	defaultSpring spring.Parameters
	breakpoints   []Breakpoint
	mappings      []Mapping
	columns       []*semanticColumn

	awaiting bool     // last breakpoint has no continuation yet
	jump     *float64 // output at the last breakpoint, set by JumpTo/JumpBy
	target   *pendingTarget
	err      error
}

type semanticColumn struct {
	key     *keyInfo
	values  []any
	present []bool
}

// pendingTarget is a linear segment whose slope depends on the next breakpoint.
type pendingTarget struct {
	segment int
	from    float64
	value   float64
	target  float64
}

// BuilderOption configures a DirectionalBuilder.
type BuilderOption func(*DirectionalBuilder)

// WithDefaultSpring sets the spring of breakpoints that do not choose one.
func WithDefaultSpring(p spring.Parameters) BuilderOption {
	return func(b *DirectionalBuilder) { b.defaultSpring = p }
}

// WithInitialSemantics attaches semantic values to the first segment.
func WithInitialSemantics(values ...SemanticValue) BuilderOption {
	return func(b *DirectionalBuilder) { b.WithSemantics(values...) }
}

// NewDirectionalBuilder starts a spec whose first segment, from minLimit to
// the first breakpoint, uses initial.
func NewDirectionalBuilder(initial Mapping, opts ...BuilderOption) *DirectionalBuilder {
	b := &DirectionalBuilder{
		defaultSpring: spring.Parameters{Stiffness: spring.StiffnessMedium, DampingRatio: spring.DampingRatioNoBouncy},
		breakpoints:   []Breakpoint{MinLimit},
	}
	if err := validateMapping(initial); err != nil {
		b.err = err
	}
	b.mappings = []Mapping{initial}
	for _, opt := range opts {
		opt(b)
	}
	if b.err == nil {
		if err := b.defaultSpring.Validate(); err != nil {
			b.err = fmt.Errorf("%w: default spring: %w", ErrInvalidArgument, err)
		}
	}
	return b
}

// BreakpointOption configures a breakpoint added by ToBreakpoint.
type BreakpointOption func(*Breakpoint)

// WithKey names the breakpoint. Without it a fresh key is generated.
func WithKey(key BreakpointKey) BreakpointOption {
	return func(bp *Breakpoint) { bp.Key = key }
}

// WithSpring sets the spring that smooths the jump at the breakpoint.
func WithSpring(p spring.Parameters) BreakpointOption {
	return func(bp *Breakpoint) { bp.Spring = p }
}

// WithGuarantee bounds the animation started at the breakpoint.
func WithGuarantee(g Guarantee) BreakpointOption {
	return func(bp *Breakpoint) { bp.Guarantee = g }
}

// ToBreakpoint adds a breakpoint at position. It must be followed by one of
// the Continue methods.
func (b *DirectionalBuilder) ToBreakpoint(position float64, opts ...BreakpointOption) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if b.awaiting {
		b.err = invalidf("breakpoint %v has no continuation", b.last())
		return b
	}
	bp := Breakpoint{Position: position, Spring: b.defaultSpring, Guarantee: GuaranteeNone{}}
	for _, opt := range opts {
		opt(&bp)
	}
	if bp.Key.IsZero() {
		bp.Key = NewBreakpointKey(fmt.Sprintf("bp%d", len(b.breakpoints)))
	}
	bp.Guarantee = orNone(bp.Guarantee)
	if err := bp.validateInner(); err != nil {
		b.err = err
		return b
	}
	if prev := b.last(); bp.Position < prev.Position {
		b.err = invalidf("breakpoint %v is not sorted after %v", bp, prev)
		return b
	}
	b.breakpoints = append(b.breakpoints, bp)
	b.resolveTarget(bp.Position)
	b.awaiting = true
	b.jump = nil
	return b
}

// JumpTo makes the output jump to value at the last breakpoint.
func (b *DirectionalBuilder) JumpTo(value float64) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if !b.awaiting {
		b.err = invalidf("jump without a breakpoint")
		return b
	}
	if !isFinite(value) {
		b.err = invalidf("jump to %v", value)
		return b
	}
	b.jump = &value
	return b
}

// JumpBy makes the output jump by delta at the last breakpoint.
func (b *DirectionalBuilder) JumpBy(delta float64) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if !isFinite(delta) {
		b.err = invalidf("jump by %v", delta)
		return b
	}
	return b.JumpTo(b.valueAtLast() + delta)
}

// ContinueWith uses m for the segment after the last breakpoint.
func (b *DirectionalBuilder) ContinueWith(m Mapping) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if b.jump != nil {
		b.err = invalidf("ContinueWith after a jump at %v; the mapping defines the output", b.last())
		return b
	}
	return b.continueWith(m)
}

// ContinueWithConstantValue holds the output at the breakpoint's value.
func (b *DirectionalBuilder) ContinueWithConstantValue() *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	return b.continueWith(Fixed{Value: b.valueAtLast()})
}

// ContinueWithFractionalInput continues from the breakpoint's value, moving
// fraction output units per input unit.
func (b *DirectionalBuilder) ContinueWithFractionalInput(fraction float64) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if !isFinite(fraction) {
		b.err = invalidf("fractional input %v", fraction)
		return b
	}
	at := b.last().Position
	return b.continueWith(Linear{Factor: fraction, Offset: b.valueAtLast() - fraction*at})
}

// ContinueWithTargetValue interpolates from the breakpoint's value to target
// at the next breakpoint.
func (b *DirectionalBuilder) ContinueWithTargetValue(target float64) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	if !isFinite(target) {
		b.err = invalidf("target value %v", target)
		return b
	}
	from, value := b.last().Position, b.valueAtLast()
	b.continueWith(Fixed{Value: value})
	if b.err == nil {
		b.target = &pendingTarget{segment: len(b.mappings) - 1, from: from, value: value, target: target}
	}
	return b
}

// WithSemantics attaches values to the most recent segment. Values carry
// over to later segments until overridden.
func (b *DirectionalBuilder) WithSemantics(values ...SemanticValue) *DirectionalBuilder {
	if b.err != nil {
		return b
	}
	seg := len(b.mappings) - 1
	for _, v := range values {
		if v.key == nil {
			b.err = invalidf("semantic value without a key")
			return b
		}
		col := b.column(v.key)
		col.values[seg] = v.Value
		col.present[seg] = true
	}
	return b
}

// Build appends maxLimit and returns the finished spec.
func (b *DirectionalBuilder) Build() (*DirectionalMotionSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.awaiting {
		return nil, invalidf("breakpoint %v has no continuation", b.last())
	}
	if b.target != nil {
		return nil, invalidf("target value %v needs a following breakpoint", b.target.target)
	}
	bps := append(append([]Breakpoint(nil), b.breakpoints...), MaxLimit)
	sem := make([]SegmentSemanticValues, len(b.columns))
	for i, col := range b.columns {
		sem[i] = SegmentSemanticValues{key: col.key, values: col.values, present: col.present}
	}
	return NewDirectionalMotionSpec(bps, b.mappings, sem...)
}

// MustBuild is like Build but panics on error. Meant for static spec tables.
func (b *DirectionalBuilder) MustBuild() *DirectionalMotionSpec {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *DirectionalBuilder) continueWith(m Mapping) *DirectionalBuilder {
	if !b.awaiting {
		b.err = invalidf("continuation without a breakpoint")
		return b
	}
	if err := validateMapping(m); err != nil {
		b.err = err
		return b
	}
	b.mappings = append(b.mappings, m)
	for _, col := range b.columns {
		prev := len(col.values) - 1
		col.values = append(col.values, col.values[prev])
		col.present = append(col.present, col.present[prev])
	}
	b.awaiting = false
	b.jump = nil
	return b
}

func (b *DirectionalBuilder) resolveTarget(to float64) {
	t := b.target
	if t == nil {
		return
	}
	b.target = nil
	if to == t.from {
		// Zero-width segment, nothing to interpolate.
		return
	}
	l, err := LinearThrough(t.from, t.value, to, t.target)
	if err != nil {
		b.err = err
		return
	}
	b.mappings[t.segment] = l
}

func (b *DirectionalBuilder) column(key *keyInfo) *semanticColumn {
	for _, col := range b.columns {
		if col.key == key {
			return col
		}
	}
	col := &semanticColumn{
		key:     key,
		values:  make([]any, len(b.mappings)),
		present: make([]bool, len(b.mappings)),
	}
	b.columns = append(b.columns, col)
	return col
}

func (b *DirectionalBuilder) last() Breakpoint {
	return b.breakpoints[len(b.breakpoints)-1]
}

// valueAtLast is the output at the last breakpoint: the pending jump if any,
// otherwise where the previous segment's mapping arrives.
func (b *DirectionalBuilder) valueAtLast() float64 {
	if b.jump != nil {
		return *b.jump
	}
	return b.mappings[len(b.mappings)-1].Map(b.last().Position)
}
