package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv 未在配置文件中设置 api_key 时读取的环境变量
const APIKeyEnv = "EDITORIAL_API_KEY"

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Report      ReportConfig      `yaml:"report"`
}

// LLMConfig LLM 相关配置，base_url 需兼容 OpenAI 协议
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// AnalysisConfig 分析相关配置
type AnalysisConfig struct {
	Keywords []string `yaml:"keywords"` // 重点追踪的实体
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// ReportConfig HTML 报告输出配置
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:   "gemini-3-pro-preview",
		},
		Analysis: AnalysisConfig{
			Keywords: []string{"Cancer", "Heart Attack"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Concurrency: ConcurrencyConfig{
			QPS: 1,
			RPM: 10,
		},
		Report: ReportConfig{
			OutputDir: "reports",
		},
	}
}

// LoadConfig 从指定路径加载配置，未设置的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv 用环境变量补全 API Key
func (c *Config) ApplyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(APIKeyEnv)
	}
}
