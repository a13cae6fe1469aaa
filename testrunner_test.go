package printshop

import (
	"strings"
	"testing"
)

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, script, want string
	}{
		{"invalid json", `{`, "parse test script"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"spin"}]}`, `unknown action "spin"`},
		{"bad region", `{"steps":[{"action":"screenshot","region":"toolbar"}]}`, `step 0: unknown region "toolbar"`},
		{"negative frames", `{"steps":[{"action":"reset"},{"action":"wait","frames":-2}]}`, "step 1: frames must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

// runScript drives r frame by frame the way Canvas.Update does.
func runScript(t *testing.T, c *Canvas, r *TestRunner) int {
	t.Helper()
	c.SetTestRunner(r)
	frames := 0
	for !r.Done() {
		if frames > 200 {
			t.Fatal("script did not finish")
		}
		r.step(c)
		c.processInjectedInput()
		frames++
	}
	return frames
}

func TestRunnerDrivesCanvas(t *testing.T) {
	script := `{"steps":[
		{"action":"zoom_in"},
		{"action":"rotate"},
		{"action":"drag","fromX":80,"fromY":100,"toX":180,"toY":170,"frames":4},
		{"action":"wait","frames":3},
		{"action":"screenshot","label":"after drag","region":"container"}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	c := newTestCanvas(t)
	runScript(t, c, r)

	tr := c.Widget().Transform()
	assertNear(t, "scale", tr.Scale, 1.1)
	if tr.RotationDegrees != 15 {
		t.Errorf("rotation = %d, want 15", tr.RotationDegrees)
	}
	assertTranslation(t, c.Widget(), 100, 70)
	if len(c.shots) != 1 || c.shots[0] != (shot{label: "after drag", container: true}) {
		t.Errorf("shots = %+v, want one container shot", c.shots)
	}
	if c.TestRunner() != r {
		t.Error("TestRunner accessor mismatch")
	}
}

func TestRunnerWaitsForInjections(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"click","x":5,"y":5},{"action":"reset"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	c := newTestCanvas(t)

	r.step(c) // queues the click
	if c.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", c.Pending())
	}
	r.step(c) // blocked by the queue
	if r.next != 1 {
		t.Errorf("next = %d, want 1 while events are pending", r.next)
	}
	drain(c)
	r.step(c)
	if r.next != 2 {
		t.Errorf("next = %d, want 2", r.next)
	}
}

func TestRunnerWaitCountsFrames(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	// The wait step itself, four more waiting frames, one to notice the end.
	frames := runScript(t, newTestCanvas(t), r)
	if frames != 6 {
		t.Errorf("frames = %d, want 6", frames)
	}
}
