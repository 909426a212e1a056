package domain

import "github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"

// Session 单个分析会话的全部内存状态，重置后丢弃
type Session struct {
	HasKey    *bool // nil 表示尚未检查
	InputText string
	Rows      []model.ContentRow
	Result    *model.AnalysisResult
	Analyzing bool
	Error     string
}
