package log

import (
	"testing"
	"time"
)

func TestLevel_UnmarshalText(t *testing.T) {
	tests := []struct {
		text string
		want Level
		ok   bool
	}{
		{"trace", LevelTrace, true},
		{"TRACE", LevelTrace, true},
		{"debug", LevelDebug, true},
		{"Info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"info+2", LevelInfo + 2, true},
		{"loud", 0, false},
	}

	for _, tt := range tests {
		var got Level

		err := got.UnmarshalText([]byte(tt.text))
		if (err == nil) != tt.ok {
			t.Errorf("UnmarshalText(%q) error = %v", tt.text, err)

			continue
		}

		if tt.ok && got != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	if got := ParseLevel("loud"); got != DefaultLevel {
		t.Errorf("ParseLevel(loud) = %v, want %v", got, DefaultLevel)
	}
}

func TestLevel_String(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if len(names) != len(want) {
		t.Fatalf("Levels() = %v", names)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Levels()[%d] = %q, want %q", i, names[i], want[i])
		}

		if ParseLevel(names[i]).String() != names[i] {
			t.Errorf("%q does not round trip", names[i])
		}
	}
}

func TestFormat_UnmarshalText(t *testing.T) {
	for name := range Formats() {
		var f Format
		if err := f.UnmarshalText([]byte(name)); err != nil || f.String() != name {
			t.Errorf("UnmarshalText(%q) = %v, %v", name, f, err)
		}
	}

	var f Format
	if err := f.UnmarshalText([]byte("xml")); err == nil {
		t.Error("UnmarshalText(xml) succeeded")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("ParseFormat(xml) is not the default")
	}
}

func TestConfig_Options(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(true),
	)

	if c.level != LevelDebug || c.format != FormatJSON || !c.caller || !c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer was not replaced")
	}

	d := c.apply(WithDefaults(nil))
	if d.level != DefaultLevel || d.format != DefaultFormat || d.caller || d.pretty {
		t.Errorf("WithDefaults did not reset: %+v", d)
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"ms", "Oct 15 14:30:45.123"},
		{"DateTime", "2023-10-15 14:30:45"},
		{"2006/01/02", "2023/10/15"},
		{"", ""},
		{"  \t ", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		c := WithTimeLayout(tt.layout)(config{})
		if got := c.formatTime(now); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
