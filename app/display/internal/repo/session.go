package repo

import (
	"context"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

// KeyGate 宿主提供的 API Key 选择能力
type KeyGate interface {
	// HasSelectedAPIKey 是否已经选择了 API Key
	HasSelectedAPIKey(ctx context.Context) (bool, error)
	// OpenSelectKey 选择新的 API Key
	OpenSelectKey(ctx context.Context, apiKey string) error
}

// AnalysisGateway 远端分析服务
type AnalysisGateway interface {
	Analyze(ctx context.Context, rows []model.ContentRow) (*model.AnalysisResult, error)
}
