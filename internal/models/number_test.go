package models

import (
	"encoding/json"
	"testing"
)

func TestLooseNumberDecodesAnythingWithoutError(t *testing.T) {
	cases := []struct {
		name      string
		payload   string
		wantInt   int
		wantFloat float64
		wantSet   bool
	}{
		{name: "number", payload: `12000`, wantInt: 12000, wantFloat: 12000, wantSet: true},
		{name: "decimal", payload: `75.5`, wantInt: 75, wantFloat: 75.5, wantSet: true},
		{name: "numeric string", payload: `" 8.25 "`, wantInt: 8, wantFloat: 8.25, wantSet: true},
		{name: "null", payload: `null`},
		{name: "empty string", payload: `""`},
		{name: "garbage string", payload: `"ten thousand"`},
		{name: "boolean", payload: `true`},
		{name: "object", payload: `{"v":1}`},
		{name: "overflow", payload: `1e12`, wantInt: 0, wantFloat: 1e12, wantSet: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body struct {
				Value LooseNumber `json:"value"`
			}
			if err := json.Unmarshal([]byte(`{"value":`+tc.payload+`}`), &body); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := body.Value.Int(); got != tc.wantInt {
				t.Fatalf("Int() = %d, want %d", got, tc.wantInt)
			}
			if got := body.Value.Float(); got != tc.wantFloat {
				t.Fatalf("Float() = %v, want %v", got, tc.wantFloat)
			}
			if got := body.Value.IsSet(); got != tc.wantSet {
				t.Fatalf("IsSet() = %v, want %v", got, tc.wantSet)
			}
		})
	}
}

func TestLooseNumberMissingFieldIsZero(t *testing.T) {
	var entry LogEntry
	if err := json.Unmarshal([]byte(`{"log_date":"2026-10-19"}`), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entry.Steps.Int() != 0 || entry.Weight.Float() != 0 {
		t.Fatalf("expected zero values, got %d / %v", entry.Steps.Int(), entry.Weight.Float())
	}
}

func TestLooseNumberMarshalsAsNumberOrNull(t *testing.T) {
	encoded, err := json.Marshal(map[string]LooseNumber{
		"a": Number(7.5),
		"b": NumberString("oops"),
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `{"a":7.5,"b":null}` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}

func TestNormalizeActivityLevel(t *testing.T) {
	cases := map[string]string{
		"":                      ActivityRest,
		"cardio":                ActivityCardio,
		"  STRENGTH   training": ActivityStrength,
		"Group training":        ActivityGroup,
		"rest":                  ActivityRest,
	}
	for input, want := range cases {
		got, ok := NormalizeActivityLevel(input)
		if !ok || got != want {
			t.Fatalf("NormalizeActivityLevel(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}

	if _, ok := NormalizeActivityLevel("yoga"); ok {
		t.Fatalf("expected unknown activity to be rejected")
	}
}

func TestRosterStudentLatestLog(t *testing.T) {
	student := RosterStudent{}
	if student.LatestLog() != nil {
		t.Fatalf("expected nil latest log for empty history")
	}
	student.Logs = []DailyLog{{LogDate: "2026-10-19"}, {LogDate: "2026-10-18"}}
	if got := student.LatestLog(); got == nil || got.LogDate != "2026-10-19" {
		t.Fatalf("unexpected latest log %+v", got)
	}
}
