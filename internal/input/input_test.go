package input

import (
	"errors"
	"testing"

	hook "github.com/robotn/gohook"

	"github.com/emmett/voxtype/internal/logger"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    Spec
		token   string
		label   string
		wantErr bool
	}{
		{in: "fn", want: Spec{Key: KeyFn}, token: "fn", label: "Fn"},
		{in: "Ctrl+Shift+Space", want: Spec{Key: "space", Mods: ModCtrl | ModShift}, token: "ctrl+shift+space", label: "Ctrl+Shift+Space"},
		{in: "alt+cmd+d", want: Spec{Key: "d", Mods: ModAlt | ModSuper}, token: "alt+cmd+d", label: "Alt+Cmd+D"},
		{in: "option+enter", want: Spec{Key: "return", Mods: ModAlt}, token: "alt+return", label: "Alt+Return"},
		{in: "keycode:63", want: Spec{Key: "keycode:63"}, token: "keycode:63", label: "Keycode 63"},
		{in: "", wantErr: true},
		{in: "ctrl+shift", wantErr: true},
		{in: "a+b", wantErr: true},
		{in: "hyper+x", wantErr: true},
		{in: "keycode:99999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSpec: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.token {
				t.Fatalf("String() = %q, want %q", got.String(), tt.token)
			}
			if got.Label() != tt.label {
				t.Fatalf("Label() = %q, want %q", got.Label(), tt.label)
			}
		})
	}
}

func TestPackRoundTrip(t *testing.T) {
	specs := []Spec{
		DefaultSpec,
		{Key: "space", Mods: ModCtrl | ModShift},
		{Key: "f12", Mods: ModSuper},
		{Key: "keycode:63", Mods: ModAlt},
	}
	for _, s := range specs {
		if got := Unpack(s.Pack()); got != s {
			t.Errorf("Unpack(Pack(%+v)) = %+v", s, got)
		}
	}
	if (Spec{}).Pack() != 0 || Unpack(0) != (Spec{}) {
		t.Fatalf("zero spec should pack to 0")
	}
}

func TestBindingStoreSignalsChange(t *testing.T) {
	b := NewBinding(DefaultSpec)
	if b.Store(DefaultSpec) {
		t.Fatalf("storing the same spec reported a change")
	}
	select {
	case <-b.Changed():
		t.Fatalf("unexpected change signal")
	default:
	}

	next := Spec{Key: "space", Mods: ModCtrl}
	if !b.Store(next) {
		t.Fatalf("Store did not report change")
	}
	select {
	case <-b.Changed():
	default:
		t.Fatalf("missing change signal")
	}
	if b.Load() != next {
		t.Fatalf("Load = %+v", b.Load())
	}
}

func TestWatcherReconcile(t *testing.T) {
	b := NewBinding(Spec{Key: KeyFn})
	current := Spec{Key: "space", Mods: ModCtrl | ModShift}
	var loadErr error
	w := NewWatcher(b, func() (Spec, error) { return current, loadErr }, 0)

	if !w.Reconcile() {
		t.Fatalf("first reconcile should change the binding")
	}
	if w.Reconcile() {
		t.Fatalf("second reconcile should be a no-op")
	}

	loadErr = errors.New("unreadable")
	current = Spec{Key: KeyFn}
	if w.Reconcile() || b.Load() != (Spec{Key: "space", Mods: ModCtrl | ModShift}) {
		t.Fatalf("load error must keep the binding")
	}
}

func TestEmitNeverBlocks(t *testing.T) {
	out := make(chan Signal, 1)
	log := logger.Nop()
	emit(out, Down, log)
	emit(out, Up, log) // dropped
	if got := <-out; got != Down {
		t.Fatalf("got %v", got)
	}
	select {
	case sig := <-out:
		t.Fatalf("unexpected %v", sig)
	default:
	}
}

func TestHookMatcher(t *testing.T) {
	keyA, ok := hookKeycode("a")
	if !ok {
		t.Fatalf("no hook keycode for a")
	}
	spec := Spec{Key: "a", Mods: ModCtrl}
	m := newHookMatcher()

	if _, ok := m.feed(spec, hook.KeyHold, keyA, 0); ok {
		t.Fatalf("a without ctrl must not fire")
	}
	m.feed(spec, hook.KeyUp, keyA, 0)

	m.feed(spec, hook.KeyHold, vcCtrlR, 0)
	if sig, ok := m.feed(spec, hook.KeyHold, keyA, 0); !ok || sig != Down {
		t.Fatalf("rctrl+a should fire Down, got %v %v", sig, ok)
	}
	if _, ok := m.feed(spec, hook.KeyHold, keyA, 0); ok {
		t.Fatalf("auto-repeat must not fire again")
	}
	if sig, ok := m.feed(spec, hook.KeyUp, keyA, 0); !ok || sig != Up {
		t.Fatalf("release should fire Up, got %v %v", sig, ok)
	}

	m.feed(spec, hook.KeyHold, keyA, 0)
	if sig, ok := m.reset(); !ok || sig != Up {
		t.Fatalf("reset while pressed should release")
	}
}

func TestHookKeycode(t *testing.T) {
	for _, key := range namedKeys {
		if key == KeyFn {
			continue
		}
		if _, ok := hookKeycode(key); !ok {
			t.Errorf("binding key %q has no hook keycode", key)
		}
	}
	enter, _ := hookKeycode("return")
	if want := hook.Keycode["enter"]; enter != want {
		t.Errorf("return = %d, want enter %d", enter, want)
	}
	esc, _ := hookKeycode("escape")
	if want := hook.Keycode["esc"]; esc != want {
		t.Errorf("escape = %d, want esc %d", esc, want)
	}
}

func TestDefaultSpecFiresOnHook(t *testing.T) {
	spec := DefaultSpec
	m := newHookMatcher()

	left := map[Modifier]uint16{ModCtrl: vcCtrlL, ModShift: vcShiftL, ModAlt: vcAltL, ModSuper: vcMetaL}
	for mod, code := range left {
		if spec.Mods&mod != 0 {
			m.feed(spec, hook.KeyDown, code, 0)
		}
	}

	var keycode, rawcode uint16
	if spec.Key == KeyFn {
		if fnRawcode == 0 {
			t.Fatalf("default binding is fn, which the hook cannot see here")
		}
		rawcode = fnRawcode
	} else {
		code, ok := hookKeycode(spec.Key)
		if !ok {
			t.Fatalf("no hook keycode for default key %q", spec.Key)
		}
		keycode = code
	}

	if sig, ok := m.feed(spec, hook.KeyDown, keycode, rawcode); !ok || sig != Down {
		t.Fatalf("default binding %s should fire Down, got %v %v", spec, sig, ok)
	}
	if sig, ok := m.feed(spec, hook.KeyUp, keycode, rawcode); !ok || sig != Up {
		t.Fatalf("default binding %s should fire Up, got %v %v", spec, sig, ok)
	}
}

func TestRawKeycodeMatch(t *testing.T) {
	spec := Spec{Key: "keycode:63"}
	m := newHookMatcher()
	if sig, ok := m.feed(spec, hook.KeyHold, 0, 63); !ok || sig != Down {
		t.Fatalf("raw keycode should match rawcode")
	}
}

func TestNewSource(t *testing.T) {
	b := NewBinding(DefaultSpec)
	if _, err := NewSource(BackendHook, b); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSource("x11", b); err == nil {
		t.Fatalf("unknown backend should fail")
	}
	if _, _, err := toHotkey(Spec{Key: KeyFn}); err == nil {
		t.Fatalf("fn cannot be registered")
	}
}
