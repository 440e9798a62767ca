package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"  info  ", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	conf := &Conf{Output: "file", Path: "./logs"}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if conf.RotateSize != 100 || conf.RotateNum != 10 || conf.KeepDays != 7 {
		t.Errorf("Validate() did not fill defaults: %+v", conf)
	}

	conf = &Conf{Output: "file"}
	if err := conf.Validate(); err == nil {
		t.Error("Validate() expected error for missing path")
	}
}

func TestInitStdout(t *testing.T) {
	if err := Init(SetDefaults()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil after Init")
	}
	Infof("log test %s", "message")
}
