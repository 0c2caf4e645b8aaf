package tracker

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseApplicationPatch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]interface{}
	}{
		{
			name: "empty object",
			body: `{}`,
			want: map[string]interface{}{},
		},
		{
			name: "text fields are trimmed",
			body: `{"college_name":"  Rice University ","status":"Submitted","notes":""}`,
			want: map[string]interface{}{"college_name": "Rice University", "status": "Submitted", "notes": ""},
		},
		{
			name: "flags accept bools and 0/1",
			body: `{"transcript_sent":1,"test_scores_sent":false,"financial_aid":"true"}`,
			want: map[string]interface{}{"transcript_sent": true, "test_scores_sent": false, "financial_aid": true},
		},
		{
			name: "lor_count from string",
			body: `{"lor_count":"3"}`,
			want: map[string]interface{}{"lor_count": 3},
		},
		{
			name: "deadline set",
			body: `{"deadline":"2026-01-15"}`,
			want: map[string]interface{}{"deadline": "2026-01-15"},
		},
		{
			name: "blank deadline clears",
			body: `{"deadline":"  "}`,
			want: map[string]interface{}{"deadline": nil},
		},
		{
			name: "null deadline clears",
			body: `{"deadline":null}`,
			want: map[string]interface{}{"deadline": nil},
		},
		{
			name: "unknown keys are ignored",
			body: `{"id":7,"created_at":"yesterday","essay_status":"Draft"}`,
			want: map[string]interface{}{"essay_status": "Draft"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := ParseApplicationPatch([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := patch.Columns(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("columns = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseApplicationPatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not json", `status=Submitted`, "invalid request body"},
		{"array body", `[1,2]`, "invalid request body"},
		{"blank college name", `{"college_name":"   "}`, "college_name"},
		{"numeric status", `{"status":5}`, "status"},
		{"bad deadline", `{"deadline":"01/15/2026"}`, "deadline"},
		{"numeric deadline", `{"deadline":20260115}`, "deadline"},
		{"lor_count too high", `{"lor_count":11}`, "lor_count"},
		{"negative lor_count", `{"lor_count":-1}`, "lor_count"},
		{"fractional lor_count", `{"lor_count":1.5}`, "lor_count"},
		{"lor_count word", `{"lor_count":"two"}`, "lor_count"},
		{"flag out of range", `{"financial_aid":2}`, "financial_aid"},
		{"flag word", `{"transcript_sent":"sent"}`, "transcript_sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApplicationPatch([]byte(tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
