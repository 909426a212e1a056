package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/editorial_lens/app/display/internal/conf"
	"github.com/iWorld-y/editorial_lens/app/display/internal/data"
	"github.com/iWorld-y/editorial_lens/app/display/internal/repo"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/config"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/gateway"
	edLogger "github.com/iWorld-y/editorial_lens/app/editorial/pkg/logger"
)

// NewAnalysisGateway 初始化分析网关，API Key 每次调用时从 Data 读取
func NewAnalysisGateway(c *conf.Editorial, d *data.Data, logger log.Logger) (repo.AnalysisGateway, error) {
	// 将 internal/conf.Editorial 转换为 pkg/config.Config，未配置的项沿用默认值
	cfg := editorialConfig(c)

	// 初始化日志
	if err := edLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init editorial logger: %v", err)
		_ = edLogger.InitLogger("info", "") // 降级处理
	}

	gw := gateway.New(
		gateway.NewOpenAIFactory(cfg.LLM),
		d,
		gateway.WithLimiter(gateway.NewLimiter(cfg.Concurrency)),
		gateway.WithKeywords(cfg.Analysis.Keywords...),
	)
	log.NewHelper(logger).Infof("analysis gateway ready, model=%s", cfg.LLM.Model)
	return gw, nil
}

func editorialConfig(c *conf.Editorial) *config.Config {
	cfg := config.Default()
	if c == nil {
		return cfg
	}
	if c.Llm != nil {
		if c.Llm.BaseUrl != "" {
			cfg.LLM.BaseURL = c.Llm.BaseUrl
		}
		if c.Llm.Model != "" {
			cfg.LLM.Model = c.Llm.Model
		}
	}
	if len(c.Keywords) > 0 {
		cfg.Analysis.Keywords = c.Keywords
	}
	if c.Log != nil {
		if c.Log.Level != "" {
			cfg.Log.Level = c.Log.Level
		}
		cfg.Log.File = c.Log.File
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	return cfg
}
