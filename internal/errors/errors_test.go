package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindIO, "I/O error"},
		{KindPath, "Path error"},
		{KindCommand, "Command error"},
		{KindFFprobeParse, "FFprobe parse error"},
		{KindJSONParse, "JSON parse error"},
		{KindVideoInfo, "Video info error"},
		{KindConfig, "Configuration error"},
		{KindPolicyMissing, "Motion policy missing"},
		{KindDecode, "Decode error"},
		{KindCancelled, "Operation cancelled"},
		{ErrorKind(99), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "config issue",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: config issue"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), underlying) {
		t.Error("errors.Is should reach the underlying error through wrapping")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindIO, Message: "test1"}
	err2 := &CoreError{Kind: KindIO, Message: "test2"}
	err3 := &CoreError{Kind: KindConfig, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Same kind errors should match")
	}

	if err1.Is(err3) {
		t.Error("Different kind errors should not match")
	}
}

func TestCommandError(t *testing.T) {
	startErr := &CommandError{
		Command:    "ffmpeg",
		Kind:       CommandStart,
		Underlying: errors.New("not found"),
	}
	if got := startErr.Error(); got != "failed to execute ffmpeg: not found" {
		t.Errorf("CommandStart error = %v", got)
	}

	failedErr := &CommandError{
		Command:  "ffprobe",
		Kind:     CommandFailed,
		ExitCode: 1,
		Stderr:   "file not found",
	}
	expected := "command ffprobe failed with exit code 1: file not found"
	if got := failedErr.Error(); got != expected {
		t.Errorf("CommandFailed error = %v, want %v", got, expected)
	}

	noStderr := &CommandError{Command: "ffmpeg", Kind: CommandFailed, ExitCode: 2}
	if got := noStderr.Error(); got != "command ffmpeg failed with exit code 2" {
		t.Errorf("CommandFailed without stderr = %v", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *CoreError
		want ErrorKind
	}{
		{"NewIOError", NewIOError("disk full", errors.New("no space")), KindIO},
		{"NewPathError", NewPathError("invalid path"), KindPath},
		{"NewCommandStartError", NewCommandStartError("ffmpeg", errors.New("missing")), KindCommand},
		{"NewCommandFailedError", NewCommandFailedError("ffmpeg", 1, ""), KindCommand},
		{"NewFFprobeParseError", NewFFprobeParseError("bad", nil), KindFFprobeParse},
		{"NewJSONParseError", NewJSONParseError("bad", nil), KindJSONParse},
		{"NewVideoInfoError", NewVideoInfoError("no stream"), KindVideoInfo},
		{"NewConfigError", NewConfigError("invalid stride", nil), KindConfig},
		{"NewPolicyMissingError", NewPolicyMissingError("policy.json"), KindPolicyMissing},
		{"NewDecodeError", NewDecodeError("short read", nil), KindDecode},
		{"NewCancelledError", NewCancelledError(), KindCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, tt.err.Kind)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := NewConfigError("test", nil)

	if !IsKind(err, KindConfig) {
		t.Error("IsKind should return true for matching kind")
	}

	if IsKind(err, KindIO) {
		t.Error("IsKind should return false for non-matching kind")
	}

	if IsKind(errors.New("plain error"), KindConfig) {
		t.Error("IsKind should return false for non-CoreError")
	}

	if !IsKind(fmt.Errorf("context: %w", err), KindConfig) {
		t.Error("IsKind should see through wrapping")
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(NewCancelledError()) {
		t.Error("IsCancelled should return true for cancelled error")
	}
	if IsCancelled(NewConfigError("test", nil)) {
		t.Error("IsCancelled should return false for non-cancelled error")
	}
}

func TestIsPolicyMissing(t *testing.T) {
	if !IsPolicyMissing(NewPolicyMissingError("exercise_motion_overview.json")) {
		t.Error("IsPolicyMissing should return true for policy-missing error")
	}
	if IsPolicyMissing(NewJSONParseError("bad json", nil)) {
		t.Error("IsPolicyMissing should return false for parse errors")
	}
}

func TestWrapExecError(t *testing.T) {
	err := WrapExecError("ffprobe", errors.New("executable file not found"), "")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected CommandError in chain")
	}
	if cmdErr.Kind != CommandStart {
		t.Errorf("Kind = %v, want CommandStart", cmdErr.Kind)
	}
}
