package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		level     Level
		wantError bool
		wantWarn  bool
		wantInfo  bool
		wantDebug bool
	}{
		{LevelError, true, false, false, false},
		{LevelWarn, true, true, false, false},
		{LevelInfo, true, true, true, false},
		{LevelDebug, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Errorf("error message")
			logger.Warnf("warn message")
			logger.Infof("info message")
			logger.Debugf("debug message")

			output := buf.String()
			if got := strings.Contains(output, "ERROR "); got != tt.wantError {
				t.Errorf("Error logged: got %v, want %v", got, tt.wantError)
			}
			if got := strings.Contains(output, "WARN "); got != tt.wantWarn {
				t.Errorf("Warn logged: got %v, want %v", got, tt.wantWarn)
			}
			if got := strings.Contains(output, "INFO "); got != tt.wantInfo {
				t.Errorf("Info logged: got %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(output, "DEBUG "); got != tt.wantDebug {
				t.Errorf("Debug logged: got %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestFatalfInvokesHandlerWithoutExiting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelError)

	var gotMsg string
	logger.SetFatalHandler(func(msg string) { gotMsg = msg })
	logger.Fatalf("fatal %d", 1)

	if gotMsg != "fatal 1" {
		t.Fatalf("handler received %q, want %q", gotMsg, "fatal 1")
	}
	if !strings.Contains(buf.String(), "FATAL fatal 1") {
		t.Fatalf("Fatalf did not log: %q", buf.String())
	}
}

func TestIsNilDetectsTypedNilPointer(t *testing.T) {
	var l *DefaultLogger
	if !IsNil(Logger(l)) {
		t.Fatalf("IsNil should report true for a typed-nil Logger")
	}
	if IsNil(NewDefaultLogger(LevelInfo)) {
		t.Fatalf("IsNil should report false for a real logger")
	}
}

func TestOrDefaultReplacesNilLogger(t *testing.T) {
	got := OrDefault(nil)
	if got == nil {
		t.Fatalf("OrDefault(nil) returned nil")
	}
	var typedNil *DefaultLogger
	got2 := OrDefault(typedNil)
	if got2 == nil || IsNil(got2) {
		t.Fatalf("OrDefault did not replace a typed-nil logger")
	}
}
