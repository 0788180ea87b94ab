package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	Nop
	mu     sync.Mutex
	states []string
}

func (r *recorder) SetState(s string) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

func TestAsyncDeliversInOrder(t *testing.T) {
	rec := &recorder{}
	a := NewAsync(rec, 8)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)

	a.SetState(StateRecording)
	a.SetState(StateProcessing)
	a.SetState(StateIdle)
	cancel()
	a.Wait()

	got := strings.Join(rec.snapshot(), ",")
	if got != "Recording,Processing,Idle" {
		t.Fatalf("states = %q", got)
	}
}

type callLog struct {
	Nop
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(s string) {
	c.mu.Lock()
	c.calls = append(c.calls, s)
	c.mu.Unlock()
}

func (c *callLog) SetProgress(time.Duration, int) { c.add("progress") }
func (c *callLog) SetPreview(string)              { c.add("preview") }
func (c *callLog) ShowError(s string)             { c.add("error:" + s) }
func (c *callLog) FadeOut()                       { c.add("fade") }

func TestAsyncFullQueueKeepsOutcome(t *testing.T) {
	log := &callLog{}
	a := NewAsync(log, 2)

	done := make(chan struct{})
	go func() {
		// Run is not started yet, so nothing drains the queue
		a.SetProgress(time.Second, 16000)
		a.SetProgress(2*time.Second, 32000)
		a.SetPreview("dropped")
		a.ShowError("no speech detected")
		a.FadeOut()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("post blocked on a full queue")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)

	got := strings.Join(log.calls, ",")
	if got != "error:no speech detected,fade" {
		t.Fatalf("calls = %q", got)
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, b}.SetState(StateInjected)
	if len(a.snapshot()) != 1 || len(b.snapshot()) != 1 {
		t.Fatalf("fan-out failed")
	}
}

func TestJSONFormatterEvents(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&buf)
	j.now = func() time.Time { return time.Unix(0, 0).UTC() }

	j.ShowRecording()
	j.SetProgress(1500*time.Millisecond, 24000)
	j.ShowError("no speech detected")

	var events []Event
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}
	if len(events) != 3 {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Type != "progress" || events[1].Samples != 24000 || events[1].Message != "1.5s" {
		t.Fatalf("progress event = %+v", events[1])
	}
	if events[2].Type != "error" || events[2].Message != "no speech detected" {
		t.Fatalf("error event = %+v", events[2])
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleOutput(ConsoleConfig{Writer: &buf})
	c.ShowRecording()
	c.ShowError("microphone unavailable")
	c.SetHint("")
	c.FadeOut()

	out := buf.String()
	if !strings.Contains(out, "[*] Recording...") || !strings.Contains(out, "[ERROR] microphone unavailable\n") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "[INFO]") {
		t.Fatalf("blank hint should be skipped")
	}
}

func TestNotifierUsesPreview(t *testing.T) {
	var got []string
	n := NewNotifier("voxtype")
	n.notify = func(_, msg string) error { got = append(got, msg); return nil }

	n.ShowInjected()
	n.SetPreview("hello world")
	n.ShowInjected()
	n.ShowError("injection failed")

	want := "Text inserted|hello world|injection failed"
	if strings.Join(got, "|") != want {
		t.Fatalf("notifications = %q", got)
	}
}
