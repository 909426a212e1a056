package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

// ThemeRow 主题表格中的一行
type ThemeRow struct {
	Theme         string
	StoryCount    int
	TotalUsers    string
	UsersPerStory string
	AboveAverage  bool // 高于全部主题 Users Per Story 的平均值
}

// KeywordRow 关键词表格中的一行
type KeywordRow struct {
	Keyword       string
	StoryCount    int
	TotalUsers    string
	UsersPerStory string
}

// ExtremeCard 最佳/最差表现卡片
type ExtremeCard struct {
	Theme         string
	Metric        string
	UsersPerStory string
	Stories       int
	Reach         string
	Explanation   string
}

// RecommendationGroup 一组编辑建议
type RecommendationGroup struct {
	Title string
	Items []string
}

// View 渲染报告所需的全部数据
type View struct {
	Date                 string
	RowCount             int
	TotalRecordsAnalyzed int
	Reconciliation       string
	Top                  ExtremeCard
	Bottom               ExtremeCard
	Themes               []ThemeRow
	Keywords             []KeywordRow
	ThemeKeywords        []model.ThemeKeywords
	Styles               []model.StylePerformance
	Insights             []string
	Recommendations      []RecommendationGroup
}

// Build 将分析结果转换为展示数据。rowCount 为本地解析出的记录数，仅用于对账展示。
func Build(result *model.AnalysisResult, rowCount int) *View {
	avg := AverageUsersPerStory(result.Themes)

	themes := SortThemes(result.Themes)
	themeRows := make([]ThemeRow, 0, len(themes))
	for _, t := range themes {
		themeRows = append(themeRows, ThemeRow{
			Theme:         t.Theme,
			StoryCount:    t.StoryCount,
			TotalUsers:    humanize.Comma(int64(t.TotalUsers)),
			UsersPerStory: FormatUsersPerStory(t.UsersPerStory),
			AboveAverage:  t.UsersPerStory > avg,
		})
	}

	keywordRows := make([]KeywordRow, 0, len(result.KeywordPerformance))
	for _, k := range result.KeywordPerformance {
		keywordRows = append(keywordRows, KeywordRow{
			Keyword:       k.Keyword,
			StoryCount:    k.StoryCount,
			TotalUsers:    humanize.Comma(int64(k.TotalUsers)),
			UsersPerStory: FormatUsersPerStory(k.UsersPerStory),
		})
	}

	return &View{
		Date:                 time.Now().Format("2006-01-02"),
		RowCount:             rowCount,
		TotalRecordsAnalyzed: result.TotalRecordsAnalyzed,
		Reconciliation:       Reconciliation(result.TotalRecordsAnalyzed, rowCount),
		Top:                  card(result.TopPerformer),
		Bottom:               card(result.BottomPerformer),
		Themes:               themeRows,
		Keywords:             keywordRows,
		ThemeKeywords:        result.Keywords,
		Styles:               result.Styles,
		Insights:             result.Insights,
		Recommendations: []RecommendationGroup{
			{Title: "Scale Up", Items: result.Recommendations.Increase},
			{Title: "Optimize", Items: result.Recommendations.Optimize},
			{Title: "De-prioritize", Items: result.Recommendations.Decrease},
			{Title: "Experiments", Items: result.Recommendations.Experiment},
		},
	}
}

// SortThemes 按总用户数降序返回副本，不修改原结果
func SortThemes(themes []model.ThemePerformance) []model.ThemePerformance {
	sorted := make([]model.ThemePerformance, len(themes))
	copy(sorted, themes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalUsers > sorted[j].TotalUsers
	})
	return sorted
}

// AverageUsersPerStory 全部主题 Users Per Story 的算术平均
func AverageUsersPerStory(themes []model.ThemePerformance) float64 {
	if len(themes) == 0 {
		return 0
	}
	var sum float64
	for _, t := range themes {
		sum += t.UsersPerStory
	}
	return sum / float64(len(themes))
}

// FormatUsersPerStory 四舍五入并加千分位
func FormatUsersPerStory(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// Reconciliation 远端声明的处理条数与本地条数对账
func Reconciliation(analyzed, rowCount int) string {
	return fmt.Sprintf("Processed %d of %d stories successfully.", analyzed, rowCount)
}

func card(e model.PerformanceExtreme) ExtremeCard {
	return ExtremeCard{
		Theme:         e.Theme,
		Metric:        e.Metric,
		UsersPerStory: FormatUsersPerStory(e.Value),
		Stories:       e.Count,
		Reach:         humanize.Comma(int64(e.TotalReach)),
		Explanation:   e.Explanation,
	}
}
