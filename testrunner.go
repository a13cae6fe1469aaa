package printshop

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep is one entry of a JSON test script.
//
//	{"action": "drag", "fromX": 80, "fromY": 100, "toX": 180, "toY": 170, "frames": 4}
//	{"action": "screenshot", "label": "rotated", "region": "container"}
type scriptStep struct {
	Action string `json:"action"`

	// click
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// drag
	FromX float64 `json:"fromX,omitempty"`
	FromY float64 `json:"fromY,omitempty"`
	ToX   float64 `json:"toX,omitempty"`
	ToY   float64 `json:"toY,omitempty"`

	// drag, wait
	Frames int `json:"frames,omitempty"`

	// screenshot; Region is "window" (default) or "container"
	Label  string `json:"label,omitempty"`
	Region string `json:"region,omitempty"`
}

func (s scriptStep) validate() error {
	switch s.Action {
	case "click":
	case "drag", "wait":
		if s.Frames < 0 {
			return errors.New("frames must not be negative")
		}
	case "screenshot":
		if s.Region != "" && s.Region != "window" && s.Region != "container" {
			return fmt.Errorf("unknown region %q", s.Region)
		}
	default:
		if _, ok := parseAction(s.Action); !ok {
			return fmt.Errorf("unknown action %q", s.Action)
		}
	}
	return nil
}

// TestRunner plays a scripted design session against a Canvas, one step per
// frame: clicks, drags, toolbar actions (zoom_in, zoom_out, rotate, reset,
// performed by clicking the button), waits and screenshots. A step starts
// only after the input queued by the previous one has been consumed.
type TestRunner struct {
	steps []scriptStep
	next  int
	idle  int // frames left in the current wait
	done  bool
}

// LoadTestScript parses {"steps": [...]} and checks every step up front.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner; Update steps it before reading input.
func (c *Canvas) SetTestRunner(runner *TestRunner) {
	c.testRunner = runner
}

// TestRunner returns the attached runner, or nil.
func (c *Canvas) TestRunner() *TestRunner { return c.testRunner }

// Done reports whether every step has run and its input was consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(c *Canvas) {
	switch {
	case r.done, c.Pending() > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next >= len(r.steps):
		r.done = true
		return
	}

	st := r.steps[r.next]
	r.next++
	r.perform(c, st)

	if r.next == len(r.steps) && r.idle == 0 && c.Pending() == 0 {
		r.done = true
	}
}

func (r *TestRunner) perform(c *Canvas, st scriptStep) {
	switch st.Action {
	case "click":
		c.InjectClick(st.X, st.Y)
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		// The current frame is the first one waited.
		r.idle = max(st.Frames-1, 0)
	case "screenshot":
		if st.Region == "container" {
			c.ScreenshotContainer(st.Label)
		} else {
			c.Screenshot(st.Label)
		}
	default:
		a, _ := parseAction(st.Action)
		c.InjectAction(a)
	}
}
