package interactions

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// DefaultMoveSteps is the number of mousemove events sent per pointer move.
const DefaultMoveSteps = 5

// Option configures Actions.
type Option func(*Actions)

// WithMoveSteps sets how many intermediate mousemove events each pointer
// move emits. Values below 1 are treated as 1.
func WithMoveSteps(n int) Option {
	return func(a *Actions) {
		if n < 1 {
			n = 1
		}
		a.moveSteps = n
	}
}

// WithLogger sets the logger used to trace performed steps at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Actions) {
		if l != nil {
			a.log = l
		}
	}
}

// Actions batches pointer steps and performs them in order against the
// pointer of a top-level page.
//
// Builder methods never fail; errors surface from Perform. An Actions value
// may be performed more than once.
type Actions struct {
	page      *rod.Page
	steps     []step
	moveSteps int
	log       logrus.FieldLogger
}

// NewActions creates an empty action sequence for page. Elements passed to
// the builder may live in page or in any of its frames.
func NewActions(page *rod.Page, opts ...Option) *Actions {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Actions{
		page:      page,
		moveSteps: DefaultMoveSteps,
		log:       discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MoveToElement scrolls el into view and moves the pointer to its centre.
func (a *Actions) MoveToElement(el *rod.Element) *Actions {
	a.steps = append(a.steps, moveToElement{el: el})
	return a
}

// MoveByOffset moves the pointer relative to its current position.
// The target must lie inside the reachable area of the page.
func (a *Actions) MoveByOffset(dx, dy int) *Actions {
	a.steps = append(a.steps, moveByOffset{dx: dx, dy: dy})
	return a
}

// ClickAndHold presses the left button on el's centre, or at the current
// position when el is nil.
func (a *Actions) ClickAndHold(el *rod.Element) *Actions {
	if el != nil {
		a.MoveToElement(el)
	}
	a.steps = append(a.steps, buttonDown{})
	return a
}

// Release lifts the left button at the current position.
func (a *Actions) Release() *Actions {
	a.steps = append(a.steps, buttonUp{})
	return a
}

// Pause waits for d between steps.
func (a *Actions) Pause(d time.Duration) *Actions {
	a.steps = append(a.steps, pause{d: d})
	return a
}

// DragAndDrop presses on src, moves to the centre of dst and releases.
func (a *Actions) DragAndDrop(src, dst *rod.Element) *Actions {
	return a.ClickAndHold(src).MoveToElement(dst).Release()
}

// DragAndDropBy presses on src, moves by (dx, dy) and releases.
func (a *Actions) DragAndDropBy(src *rod.Element, dx, dy int) *Actions {
	return a.ClickAndHold(src).MoveByOffset(dx, dy).Release()
}

// Len returns the number of queued steps.
func (a *Actions) Len() int {
	return len(a.steps)
}

// Perform executes the queued steps in order. The first failing step aborts
// the sequence and its error is returned. The pointer is left as that step
// left it: a pressed button stays pressed until a later Release.
func (a *Actions) Perform(ctx context.Context) error {
	s := &pointerState{
		page:      a.page,
		mouse:     a.page.Mouse,
		moveSteps: a.moveSteps,
	}
	for i, st := range a.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"step": i, "action": st.String()}).Debug("performing action")
		if err := st.perform(ctx, s); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, st, err)
		}
	}
	return nil
}

// pointerState is the mutable state threaded through one Perform call.
type pointerState struct {
	page      *rod.Page
	mouse     *rod.Mouse
	moveSteps int

	// anchor is the element the pointer last moved to. Its scroll
	// containers extend the reachable area of relative moves.
	anchor *rod.Element
}

type step interface {
	perform(ctx context.Context, s *pointerState) error
	String() string
}

type moveToElement struct {
	el *rod.Element
}

func (m moveToElement) perform(_ context.Context, s *pointerState) error {
	if err := m.el.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll into view: %w", err)
	}
	target, err := Center(m.el)
	if err != nil {
		return err
	}
	if err := s.mouse.MoveLinear(target, s.moveSteps); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}
	s.anchor = m.el
	return nil
}

func (m moveToElement) String() string { return "move to element" }

type moveByOffset struct {
	dx, dy int
}

func (m moveByOffset) perform(_ context.Context, s *pointerState) error {
	from := s.mouse.Position()
	target := offsetTarget(from, m.dx, m.dy)

	bounds, err := reachableArea(s.page, s.anchor)
	if err != nil {
		return err
	}
	if !bounds.Contains(target) {
		return &MoveTargetOutOfBoundsError{Target: target, Bounds: bounds}
	}

	if err := s.mouse.MoveLinear(target, s.moveSteps); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}
	return nil
}

func (m moveByOffset) String() string { return fmt.Sprintf("move by (%d, %d)", m.dx, m.dy) }

type buttonDown struct{}

func (buttonDown) perform(_ context.Context, s *pointerState) error {
	if err := s.mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to press button: %w", err)
	}
	return nil
}

func (buttonDown) String() string { return "button down" }

type buttonUp struct{}

func (buttonUp) perform(_ context.Context, s *pointerState) error {
	if err := s.mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to release button: %w", err)
	}
	return nil
}

func (buttonUp) String() string { return "button up" }

type pause struct {
	d time.Duration
}

func (p pause) perform(ctx context.Context, _ *pointerState) error {
	return Sleep(ctx, p.d)
}

func (p pause) String() string { return fmt.Sprintf("pause %v", p.d) }

// offsetTarget adds an integer offset to a pointer position. The sum is
// taken in float64 so offsets up to math.MaxInt32 never wrap.
func offsetTarget(from proto.Point, dx, dy int) proto.Point {
	return proto.Point{X: from.X + float64(dx), Y: from.Y + float64(dy)}
}

// reachableArea is the union of the top-level document's scrollable extent
// and, when anchor is set, the scroll containers enclosing it.
func reachableArea(page *rod.Page, anchor *rod.Element) (Rect, error) {
	area, err := documentArea(page)
	if err != nil {
		return Rect{}, err
	}
	if anchor == nil {
		return area, nil
	}
	scroll, err := scrollArea(anchor)
	if err != nil {
		return Rect{}, err
	}
	return area.Union(scroll), nil
}
