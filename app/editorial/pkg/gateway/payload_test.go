package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"

	dm "github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

func TestSerialize(t *testing.T) {
	rows := []dm.ContentRow{
		{Headline: "A | B", TotalUsers: 10},
		{Headline: "Plain", TotalUsers: 0},
		{Headline: "x|y|z", TotalUsers: 1234567},
	}
	got := Serialize(rows)
	want := "1|A   B|10\n2|Plain|0\n3|x y z|1234567"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerialize_LineCount(t *testing.T) {
	for _, n := range []int{1, 2, 17, 900} {
		rows := make([]dm.ContentRow, n)
		for i := range rows {
			rows[i] = dm.ContentRow{URL: "u", Headline: "h", TotalUsers: i}
		}
		lines := strings.Split(Serialize(rows), "\n")
		if len(lines) != n {
			t.Fatalf("Serialize(%d rows) lines = %d", n, len(lines))
		}
		for i, line := range lines {
			prefix := fmt.Sprintf("%d|", i+1)
			if !strings.HasPrefix(line, prefix) {
				t.Errorf("line %d = %q, want prefix %q", i, line, prefix)
			}
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(testRows, []string{"Cancer", "Stroke"})
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	for _, want := range []string{
		"dataset of 2 content records",
		"every single one of the 2 records",
		"DO NOT sample. DO NOT truncate.",
		`"Cancer", "Stroke"`,
		`"totalRecordsAnalyzed"`,
		`"bottomPerformer"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("BuildPrompt() missing %q", want)
		}
	}
}

func TestOutputSchema_RequiresAllTopLevelFields(t *testing.T) {
	s := OutputSchema()
	want := []string{"totalRecordsAnalyzed", "themes", "keywords", "keywordPerformance", "styles",
		"recommendations", "insights", "topPerformer", "bottomPerformer"}
	if len(s.Required) != len(want) {
		t.Fatalf("Required = %v, want %v", s.Required, want)
	}
	for i, k := range want {
		if s.Required[i] != k {
			t.Errorf("Required[%d] = %q, want %q", i, s.Required[i], k)
		}
		if _, ok := s.Properties.Get(k); !ok {
			t.Errorf("Properties[%q] missing", k)
		}
	}
}

func TestResponseFormat(t *testing.T) {
	rf := ResponseFormat()
	if rf.Type != openai.ChatCompletionResponseFormatTypeJSONSchema {
		t.Errorf("Type = %q, want json_schema", rf.Type)
	}
	if rf.JSONSchema == nil || !rf.JSONSchema.Strict || rf.JSONSchema.Name != "analysis_result" {
		t.Fatalf("JSONSchema = %+v", rf.JSONSchema)
	}

	b, err := json.Marshal(rf.JSONSchema.JSONSchema)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc["type"] != "object" || doc["additionalProperties"] != false {
		t.Errorf("schema = %s", b)
	}
	props, _ := doc["properties"].(map[string]any)
	top, _ := props["topPerformer"].(map[string]any)
	if req, _ := top["required"].([]any); len(req) != 6 {
		t.Errorf("topPerformer.required = %v, want 6 fields", top["required"])
	}
}

func TestParseResponse(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	result, err := ParseResponse(fenced)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if result.TopPerformer.TotalReach != 2400 {
		t.Errorf("TopPerformer = %+v", result.TopPerformer)
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	var full map[string]any
	if err := json.Unmarshal([]byte(validResponse), &full); err != nil {
		t.Fatal(err)
	}
	missing := func(key string) string {
		m := make(map[string]any, len(full))
		for k, v := range full {
			if k != key {
				m[k] = v
			}
		}
		b, _ := json.Marshal(m)
		return string(b)
	}
	with := func(key string, v any) string {
		m := make(map[string]any, len(full))
		for k, val := range full {
			m[k] = val
		}
		m[key] = v
		b, _ := json.Marshal(m)
		return string(b)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Here is your analysis: themes..."},
		{"truncated", validResponse[:len(validResponse)/2]},
		{"json array", "[]"},
		{"missing styles", missing("styles")},
		{"missing insights", missing("insights")},
		{"null top performer", with("topPerformer", nil)},
		{"fractional count", with("totalRecordsAnalyzed", 2.5)},
		{"themes wrong type", with("themes", "Health")},
		{"nested field missing", with("recommendations", map[string]any{"increase": []string{}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResponse(tt.content)
			if err == nil {
				t.Fatalf("ParseResponse() = %+v, want error", result)
			}
			if result != nil {
				t.Errorf("ParseResponse() result = %+v, want nil", result)
			}
			if Classify(err) != KindInvalid {
				t.Errorf("Classify() = %v, want invalid", Classify(err))
			}
		})
	}
}
