package log

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func decodeEntry(t *testing.T, e Entry) map[string]any {
	t.Helper()
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestEntry_MarshalJSON_FlattensFields(t *testing.T) {
	e := NewEntry(Warn, "source degraded").With("post_id", "20", "attempt", 1)
	e.Timestamp = time.Date(2023, 5, 11, 18, 4, 9, 0, time.UTC)
	e.RequestID = "req-1"

	m := decodeEntry(t, *e)

	want := map[string]any{
		"timestamp":  "2023-05-11T18:04:09Z",
		"level":      "WARN",
		"msg":        "source degraded",
		"request_id": "req-1",
		"post_id":    "20",
		"attempt":    float64(1),
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v, want %v", k, m[k], v)
		}
	}
	if _, ok := m["caller"]; ok {
		t.Error("empty caller should be omitted")
	}
}

func TestEntry_MarshalJSON_RendersErrors(t *testing.T) {
	e := NewEntry(Error, "fetch failed").With("error", errors.New("connection reset"))

	m := decodeEntry(t, *e)

	if m["error"] != "connection reset" {
		t.Errorf("error = %v, want the error text", m["error"])
	}
}

func TestEntry_MarshalJSON_ProtectsReservedKeys(t *testing.T) {
	e := NewEntry(Info, "real message").With("msg", "spoofed", "level", "FATAL")

	m := decodeEntry(t, *e)

	if m["msg"] != "real message" || m["level"] != "INFO" {
		t.Errorf("reserved keys overwritten: %v", m)
	}
	if m["field.msg"] != "spoofed" || m["field.level"] != "FATAL" {
		t.Errorf("colliding fields not preserved: %v", m)
	}
}

func TestEntry_With_SkipsBadPairs(t *testing.T) {
	e := NewEntry(Info, "x").With(42, "ignored", "ok", true, "dangling")

	if len(e.Fields) != 1 || e.Fields["ok"] != true {
		t.Errorf("Fields = %v", e.Fields)
	}
}
