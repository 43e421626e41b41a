package log

import (
	"context"
	"strings"
	"testing"
)

func newTestLogger(level Level) (*Logger, *recorder) {
	rec := &recorder{}
	return New(level, rec), rec
}

func lastEntry(t *testing.T, rec *recorder) Entry {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.entries) == 0 {
		t.Fatal("no entry delivered")
	}
	return rec.entries[len(rec.entries)-1]
}

func TestLogger_FiltersByLevel(t *testing.T) {
	logger, rec := newTestLogger(Warn)

	logger.Info("hidden")
	logger.Warn("shown")
	logger.Close()

	if got := rec.Messages(); len(got) != 1 || got[0] != "shown" {
		t.Errorf("messages = %v", got)
	}
}

func TestLogger_SetLevel_AppliesToChildren(t *testing.T) {
	logger, rec := newTestLogger(Error)
	child := logger.With("component", "scraper")

	logger.SetLevel(Debug)
	child.Debug("now visible")
	logger.Close()

	if got := rec.Messages(); len(got) != 1 {
		t.Fatalf("messages = %v", got)
	}
	if child.Level() != Debug {
		t.Errorf("child level = %v", child.Level())
	}
}

func TestLogger_FieldPrecedence(t *testing.T) {
	// Arrange
	logger, rec := newTestLogger(Info)
	child := logger.With("component", "web", "source", "base")
	ctx := WithRequestID(context.Background(), "req-9")
	ctx = WithFields(ctx, "source", "ctx", "post_id", "20")

	// Act
	child.InfoCtx(ctx, "resolved", "source", "call")
	logger.Close()

	// Assert
	e := lastEntry(t, rec)
	if e.RequestID != "req-9" {
		t.Errorf("RequestID = %q", e.RequestID)
	}
	if e.Fields["source"] != "call" || e.Fields["post_id"] != "20" || e.Fields["component"] != "web" {
		t.Errorf("Fields = %v", e.Fields)
	}
}

func TestLogger_With_DoesNotMutateParent(t *testing.T) {
	logger, rec := newTestLogger(Info)
	_ = logger.With("child_only", true)

	logger.Info("parent")
	logger.Close()

	if _, ok := lastEntry(t, rec).Fields["child_only"]; ok {
		t.Error("parent picked up child field")
	}
}

func TestLogger_RecordsCaller(t *testing.T) {
	logger, rec := newTestLogger(Info)

	logger.Info("where")
	logger.Close()

	if c := lastEntry(t, rec).Caller; !strings.HasPrefix(c, "logger_test.go:") {
		t.Errorf("Caller = %q", c)
	}
}

func TestGlobal_DefaultIsSilent(t *testing.T) {
	SetDefault(nil)

	GlobalInfo("nobody hears this")

	if Default().Level() != Off {
		t.Errorf("default level = %v, want OFF", Default().Level())
	}
}

func TestGlobal_UsesInstalledLogger(t *testing.T) {
	logger, rec := newTestLogger(Debug)
	SetDefault(logger)
	defer SetDefault(nil)

	GlobalWarnCtx(WithRequestID(context.Background(), "abc"), "degraded", "post_id", "1")
	GlobalDebug("debugging")
	logger.Close()

	if got := rec.Messages(); len(got) != 2 || got[0] != "degraded" {
		t.Fatalf("messages = %v", got)
	}
	if e := rec.entries[0]; e.RequestID != "abc" || !strings.HasPrefix(e.Caller, "logger_test.go:") {
		t.Errorf("entry = %+v", e)
	}
}

func TestWithFields_CopiesParent(t *testing.T) {
	parent := WithFields(context.Background(), "a", 1)
	child := WithFields(parent, "b", 2)

	if len(FieldsFromContext(parent)) != 1 {
		t.Errorf("parent mutated: %v", FieldsFromContext(parent))
	}
	if f := FieldsFromContext(child); f["a"] != 1 || f["b"] != 2 {
		t.Errorf("child fields = %v", f)
	}
	if RequestIDFromContext(nil) != "" || FieldsFromContext(nil) != nil {
		t.Error("nil context should yield zero values")
	}
}
