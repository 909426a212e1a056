package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		TotalRecordsAnalyzed: 3,
		Themes: []model.ThemePerformance{
			{Theme: "Sport", StoryCount: 1, TotalUsers: 400, UsersPerStory: 400},
			{Theme: "Health", StoryCount: 2, TotalUsers: 2400, UsersPerStory: 1200.4},
			{Theme: "Politics", StoryCount: 4, TotalUsers: 2000, UsersPerStory: 500},
		},
		KeywordPerformance: []model.KeywordPerformance{
			{Keyword: "Cancer", StoryCount: 1, TotalUsers: 1500, UsersPerStory: 1499.5},
		},
		Recommendations: model.EditorialRecommendations{
			Increase: []string{"More <health> explainers"},
		},
		Insights:        []string{"Health leads"},
		TopPerformer:    model.PerformanceExtreme{Theme: "Health", Value: 1200.4, Count: 2, TotalReach: 2400},
		BottomPerformer: model.PerformanceExtreme{Theme: "Sport", Value: 400, Count: 1, TotalReach: 400},
	}
}

func TestSortThemes(t *testing.T) {
	result := sampleResult()
	sorted := SortThemes(result.Themes)

	var got []string
	for _, th := range sorted {
		got = append(got, th.Theme)
	}
	if strings.Join(got, ",") != "Health,Politics,Sport" {
		t.Errorf("SortThemes() = %v", got)
	}
	if result.Themes[0].Theme != "Sport" {
		t.Errorf("SortThemes() modified its input: %v", result.Themes)
	}
}

func TestAverageUsersPerStory(t *testing.T) {
	if got := AverageUsersPerStory(nil); got != 0 {
		t.Errorf("AverageUsersPerStory(nil) = %v, want 0", got)
	}
	themes := []model.ThemePerformance{{UsersPerStory: 100}, {UsersPerStory: 300}}
	if got := AverageUsersPerStory(themes); got != 200 {
		t.Errorf("AverageUsersPerStory() = %v, want 200", got)
	}
}

func TestFormatUsersPerStory(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1499.5, "1,500"},
		{1234567.2, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatUsersPerStory(tt.in); got != tt.want {
			t.Errorf("FormatUsersPerStory(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	v := Build(sampleResult(), 5)

	if v.Reconciliation != "Processed 3 of 5 stories successfully." {
		t.Errorf("Reconciliation = %q", v.Reconciliation)
	}
	if len(v.Themes) != 3 || v.Themes[0].Theme != "Health" {
		t.Fatalf("Themes = %+v", v.Themes)
	}
	// 平均值约 700，只有 Health 高于平均
	for _, row := range v.Themes {
		if row.AboveAverage != (row.Theme == "Health") {
			t.Errorf("%s AboveAverage = %v", row.Theme, row.AboveAverage)
		}
	}
	if v.Top.UsersPerStory != "1,200" || v.Top.Reach != "2,400" {
		t.Errorf("Top = %+v", v.Top)
	}
	if len(v.Recommendations) != 4 || v.Recommendations[2].Title != "De-prioritize" {
		t.Errorf("Recommendations = %+v", v.Recommendations)
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, Build(sampleResult(), 3)); err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Processed 3 of 3 stories", "Health", "1,500", "Scale Up", "&lt;health&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHTML() output missing %q", want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.html")
	if err := WriteFile(path, Build(sampleResult(), 3)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(data, []byte("Editorial Performance Report")) {
		t.Error("report file does not contain the title")
	}
}
