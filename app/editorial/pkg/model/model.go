package model

// ContentRow 一条内容表现记录
type ContentRow struct {
	URL        string `json:"url"`
	Headline   string `json:"headline"`
	TotalUsers int    `json:"totalUsers"`
}

// ThemePerformance 主题聚合指标
type ThemePerformance struct {
	Theme         string  `json:"theme"`
	StoryCount    int     `json:"storyCount"`
	TotalUsers    int     `json:"totalUsers"`
	UsersPerStory float64 `json:"usersPerStory"`
}

// ThemeKeywords 每个主题下的高频关键词与实体
type ThemeKeywords struct {
	Theme       string   `json:"theme"`
	TopKeywords []string `json:"topKeywords"`
	TopEntities []string `json:"topEntities"`
}

// KeywordPerformance 关键词/实体聚合指标
type KeywordPerformance struct {
	Keyword       string  `json:"keyword"`
	StoryCount    int     `json:"storyCount"`
	TotalUsers    int     `json:"totalUsers"`
	UsersPerStory float64 `json:"usersPerStory"`
}

// StylePerformance 标题风格表现
type StylePerformance struct {
	Style            string  `json:"style"`
	AvgUsersPerStory float64 `json:"avgUsersPerStory"`
	Notes            string  `json:"notes"`
}

// EditorialRecommendations 编辑建议，四个分组
type EditorialRecommendations struct {
	Increase   []string `json:"increase"`
	Optimize   []string `json:"optimize"`
	Decrease   []string `json:"decrease"`
	Experiment []string `json:"experiment"`
}

// PerformanceExtreme 按 Users Per Story 选出的最好/最差主题
type PerformanceExtreme struct {
	Theme       string  `json:"theme"`
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
	Explanation string  `json:"explanation"`
	Count       int     `json:"count"`
	TotalReach  int     `json:"totalReach"`
}

// AnalysisResult 远端分析服务返回的完整结果
type AnalysisResult struct {
	TotalRecordsAnalyzed int                      `json:"totalRecordsAnalyzed"` // 仅用于展示对账，不做校验
	Themes               []ThemePerformance       `json:"themes"`
	Keywords             []ThemeKeywords          `json:"keywords"`
	KeywordPerformance   []KeywordPerformance     `json:"keywordPerformance"`
	Styles               []StylePerformance       `json:"styles"`
	Recommendations      EditorialRecommendations `json:"recommendations"`
	Insights             []string                 `json:"insights"`
	TopPerformer         PerformanceExtreme       `json:"topPerformer"`
	BottomPerformer      PerformanceExtreme       `json:"bottomPerformer"`
}
