package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

// ParseHint 解析失败时展示给用户的格式提示
const ParseHint = "Parsing error. Check format: URL, Headline, Users."

// ErrNoValidData 所有行都被过滤掉时返回
var ErrNoValidData = errors.BadRequest("NO_VALID_DATA", "No valid data found")

// IsParseError 判断是否为输入解析错误
func IsParseError(err error) bool {
	return errors.Is(err, ErrNoValidData)
}

// Parse 将粘贴或上传的 CSV 文本解析为内容记录。
// 非法行直接丢弃，不影响整批；一行都不剩时返回 ErrNoValidData。
func Parse(text string) ([]model.ContentRow, error) {
	lines := splitLines(strings.TrimSpace(text))

	rows := make([]model.ContentRow, 0, len(lines))
	for i, line := range lines {
		if i == 0 && isHeader(line) {
			continue
		}
		row, ok := parseLine(line)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoValidData
	}
	return rows, nil
}

// ParseReader 读取完整的上传内容后再解析
func ParseReader(r io.Reader) ([]model.ContentRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(string(data))
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "url") || strings.Contains(lower, "headline")
}

func parseLine(line string) (model.ContentRow, bool) {
	fields := splitFields(line)
	if len(fields) < 3 {
		return model.ContentRow{}, false
	}

	url := unquote(strings.TrimSpace(fields[0]))
	headline := unquote(strings.TrimSpace(fields[1]))
	users, ok := parseUsers(fields[2])
	if url == "" || headline == "" || !ok {
		return model.ContentRow{}, false
	}

	return model.ContentRow{URL: url, Headline: headline, TotalUsers: users}, true
}

// splitFields 按逗号切分，逗号之前出现偶数个双引号时才算分隔符。
// 不处理字段内的 "" 转义。
func splitFields(line string) []string {
	var fields []string
	quotes := 0
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quotes++
		case ',':
			if quotes%2 == 0 {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

// parseUsers 去掉千分位逗号后取前导整数，空值按 0 处理
func parseUsers(field string) (int, bool) {
	s := strings.TrimSpace(field)
	s = strings.ReplaceAll(s, ",", "")
	s = unquote(s)
	if s == "" {
		return 0, true
	}

	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
