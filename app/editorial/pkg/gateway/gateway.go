package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/gg/gson"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/config"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/logger"
	dm "github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

// ModelFactory 按当前 API Key 创建对话模型
type ModelFactory func(ctx context.Context, apiKey string) (model.BaseChatModel, error)

// KeySource 提供当前会话选中的 API Key
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey 固定的 API Key，命令行模式使用
type StaticKey string

// APIKey 实现 KeySource
func (k StaticKey) APIKey(context.Context) (string, error) {
	return string(k), nil
}

// Gateway 远端分析服务网关。
// 每次调用只发一次请求，不重试、不流式、不返回部分结果。
// 不可重入，调用方负责串行化。
type Gateway struct {
	newModel ModelFactory
	keys     KeySource
	limiter  *rate.Limiter
	keywords []string
}

// Option 网关选项
type Option func(*Gateway)

// WithLimiter 设置请求限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(g *Gateway) { g.limiter = l }
}

// WithKeywords 设置重点追踪的实体
func WithKeywords(keywords ...string) Option {
	return func(g *Gateway) { g.keywords = keywords }
}

// New 创建网关
func New(newModel ModelFactory, keys KeySource, opts ...Option) *Gateway {
	g := &Gateway{
		newModel: newModel,
		keys:     keys,
		keywords: DefaultKeywords,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOpenAIFactory 基于 OpenAI 兼容协议创建模型，key 为空时回退到配置中的 api_key
func NewOpenAIFactory(cfg config.LLMConfig) ModelFactory {
	return func(ctx context.Context, apiKey string) (model.BaseChatModel, error) {
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:        cfg.BaseURL,
			APIKey:         apiKey,
			Model:          cfg.Model,
			ResponseFormat: ResponseFormat(),
		})
		if err != nil {
			return nil, fmt.Errorf("LLM 初始化失败: %w", err)
		}
		return chatModel, nil
	}
}

// NewLimiter 按 RPM/QPS 创建限流器，RPM 未配置时不限流
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	burst := c.QPS
	if burst < 1 {
		burst = 1
	}
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

// Analyze 将全部记录发送给远端服务并解析结构化结果
func (g *Gateway) Analyze(ctx context.Context, rows []dm.ContentRow) (*dm.AnalysisResult, error) {
	if len(rows) == 0 {
		return nil, invalidResponse("no rows to analyze", nil)
	}

	prompt, err := BuildPrompt(rows, g.keywords)
	if err != nil {
		return nil, invalidResponse("failed to build request", err)
	}

	apiKey, err := g.keys.APIKey(ctx)
	if err != nil {
		return nil, keyUnavailable(err)
	}
	chatModel, err := g.newModel(ctx, apiKey)
	if err != nil {
		return nil, wrapTransport(err)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, wrapTransport(err)
		}
	}

	logger.Log.Infof("开始分析 %d 条记录", len(rows))
	start := time.Now()

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: prompt},
	}
	resp, err := chatModel.Generate(ctx, messages)
	if err != nil {
		wrapped := wrapTransport(err)
		logger.Log.Errorf("分析请求失败 [%s]: %v", Classify(wrapped), err)
		return nil, wrapped
	}
	if resp == nil {
		return nil, invalidResponse("empty response", nil)
	}
	logger.Log.Debugf("远端原始响应: %s", gson.ToString(resp))

	result, err := ParseResponse(resp.Content)
	if err != nil {
		logger.Log.Errorf("解析分析结果失败: %v", err)
		return nil, err
	}

	if result.TotalRecordsAnalyzed != len(rows) {
		logger.Log.Warnf("远端声明处理 %d 条，本地共 %d 条", result.TotalRecordsAnalyzed, len(rows))
	}
	logger.Log.Infof("分析完成: %d 个主题, 耗时 %s", len(result.Themes), time.Since(start).Round(time.Millisecond))
	return result, nil
}
