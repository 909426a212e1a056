package gateway

import (
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/eino-contrib/jsonschema"
)

// responseSchemaName 结构化输出的 schema 名称
const responseSchemaName = "analysis_result"

func str() *jsonschema.Schema     { return &jsonschema.Schema{Type: "string"} }
func integer() *jsonschema.Schema { return &jsonschema.Schema{Type: "integer"} }
func number() *jsonschema.Schema  { return &jsonschema.Schema{Type: "number"} }

func arrayOf(items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: items}
}

// field 对象属性，按声明顺序输出
type field struct {
	name   string
	schema *jsonschema.Schema
}

// object 所有属性均为必填且不允许额外属性，strict 模式要求如此
func object(fields ...field) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props.Set(f.name, f.schema)
		required = append(required, f.name)
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func aggregate(nameKey string) *jsonschema.Schema {
	return object(
		field{nameKey, str()},
		field{"storyCount", integer()},
		field{"totalUsers", integer()},
		field{"usersPerStory", number()},
	)
}

func extreme() *jsonschema.Schema {
	return object(
		field{"theme", str()},
		field{"metric", str()},
		field{"value", number()},
		field{"explanation", str()},
		field{"count", integer()},
		field{"totalReach", integer()},
	)
}

// OutputSchema 返回远端服务必须遵守的结果结构
func OutputSchema() *jsonschema.Schema {
	return object(
		field{"totalRecordsAnalyzed", integer()},
		field{"themes", arrayOf(aggregate("theme"))},
		field{"keywords", arrayOf(object(
			field{"theme", str()},
			field{"topKeywords", arrayOf(str())},
			field{"topEntities", arrayOf(str())},
		))},
		field{"keywordPerformance", arrayOf(aggregate("keyword"))},
		field{"styles", arrayOf(object(
			field{"style", str()},
			field{"avgUsersPerStory", number()},
			field{"notes", str()},
		))},
		field{"recommendations", object(
			field{"increase", arrayOf(str())},
			field{"optimize", arrayOf(str())},
			field{"decrease", arrayOf(str())},
			field{"experiment", arrayOf(str())},
		)},
		field{"insights", arrayOf(str())},
		field{"topPerformer", extreme()},
		field{"bottomPerformer", extreme()},
	)
}

// ResponseFormat 要求远端按 OutputSchema 严格输出 JSON
func ResponseFormat() *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        responseSchemaName,
			Description: "Aggregated editorial performance of the submitted content records",
			JSONSchema:  OutputSchema(),
			Strict:      true,
		},
	}
}
