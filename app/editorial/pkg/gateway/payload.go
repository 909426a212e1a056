package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/eino-contrib/jsonschema"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

// DefaultKeywords 默认重点追踪的实体
var DefaultKeywords = []string{"Cancer", "Heart Attack"}

const systemPrompt = "You are a JSON generator. Output a single valid JSON object only: no markdown fences, no prose."

// Serialize 将记录编码为 "序号|标题|用户数" 的紧凑格式，每行一条。
// 比 CSV/JSON 更省 token，适合大批量数据。
func Serialize(rows []model.ContentRow) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('|')
		sb.WriteString(strings.ReplaceAll(row.Headline, "|", " "))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(row.TotalUsers))
	}
	return sb.String()
}

// BuildPrompt 构造分析指令：要求逐条聚合、附带数据与输出结构
func BuildPrompt(rows []model.ContentRow, keywords []string) (string, error) {
	schemaJSON, err := json.MarshalIndent(OutputSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output schema: %w", err)
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = strconv.Quote(k)
	}

	n := len(rows)
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an Editorial Performance Analyst. I am providing you with a dataset of %d content records.\n\n", n)
	fmt.Fprintf(&sb, "CRITICAL: You MUST process and aggregate every single one of the %d records. DO NOT sample. DO NOT truncate.\n\n", n)
	sb.WriteString("DATA (Index | Headline | Users):\n")
	sb.WriteString(Serialize(rows))
	sb.WriteString("\n\nANALYSIS REQUIREMENTS:\n")
	sb.WriteString("1. THEMES: Group ALL records into high-level themes. Calculate Count, Total Users, and Users Per Story.\n")
	fmt.Fprintf(&sb, "2. KEYWORD PERFORMANCE: Analyze performance for keywords: %s, and other top entities.\n", strings.Join(quoted, ", "))
	sb.WriteString("3. EXTREMES: Identify the single Top Performer and Bottom Performer by \"Users Per Story\".\n")
	sb.WriteString("4. VERIFICATION: Set \"totalRecordsAnalyzed\" to the exact number of unique records (rows) you processed.\n\n")
	sb.WriteString("Output a valid JSON object strictly following this schema. Every listed property is required:\n")
	sb.Write(schemaJSON)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// ParseResponse 解析远端返回的文本。空内容、非 JSON 或结构不符都视为失败，不做任何默认填充。
func ParseResponse(content string) (*model.AnalysisResult, error) {
	clean := stripFences(content)
	if clean == "" {
		return nil, invalidResponse("empty response", nil)
	}

	var raw any
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, invalidResponse(fmt.Sprintf("response is not valid JSON (response was: %.200s)", clean), err)
	}
	if err := validate(raw, OutputSchema(), "$"); err != nil {
		return nil, invalidResponse("response does not match the output schema", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, invalidResponse("response does not match the output schema", err)
	}
	return &result, nil
}

func stripFences(content string) string {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// validate 本地复核必填字段与类型，远端未遵守 strict 模式时兜底
func validate(v any, s *jsonschema.Schema, path string) error {
	if v == nil {
		return fmt.Errorf("%s: missing value", path)
	}
	switch s.Type {
	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for _, key := range s.Required {
			prop, _ := s.Properties.Get(key)
			if err := validate(obj[key], prop, path+"."+key); err != nil {
				return err
			}
		}
	case "array":
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		for i, item := range arr {
			if err := validate(item, s.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string", path)
		}
	case "number":
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%s: expected number", path)
		}
	case "integer":
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("%s: expected integer", path)
		}
	}
	return nil
}
