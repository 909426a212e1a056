package gateway

import (
	"context"
	"net"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// Kind 分析失败的类别，调用方据此决定提示内容
type Kind int

const (
	KindNone Kind = iota
	// KindUnauthorized 凭证或资源被远端拒绝，需要重新选择 API Key
	KindUnauthorized
	// KindTransient 网络、限流、超时等暂时性失败
	KindTransient
	// KindInvalid 返回内容为空、不是 JSON 或与输出结构不符
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransient:
		return "transient"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

const (
	ReasonAPIKeyRejected      = "API_KEY_REJECTED"
	ReasonAnalysisUnavailable = "ANALYSIS_UNAVAILABLE"
	ReasonAnalysisInvalid     = "ANALYSIS_INVALID"
)

// upstream 在密钥/项目失效时返回的原文
const entityNotFound = "requested entity was not found"

// Classify 返回错误的类别。网关产生的错误按 reason 判断，
// 其余错误按传输层特征归类。
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var se *errors.Error
	if errors.As(err, &se) {
		switch se.Reason {
		case ReasonAPIKeyRejected:
			return KindUnauthorized
		case ReasonAnalysisUnavailable:
			return KindTransient
		case ReasonAnalysisInvalid:
			return KindInvalid
		}
	}
	return classifyTransport(err)
}

func classifyTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return KindTransient
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		entityNotFound,
		"status code: 401",
		"status code: 403",
		"api key not valid",
		"invalid api key",
		"incorrect api key",
		"permission_denied",
		"unauthenticated",
	} {
		if strings.Contains(msg, marker) {
			return KindUnauthorized
		}
	}
	return KindTransient
}

// wrapTransport 将远端调用错误转换为带类别的错误
func wrapTransport(err error) error {
	switch classifyTransport(err) {
	case KindUnauthorized:
		return errors.Unauthorized(ReasonAPIKeyRejected, "the analysis service rejected the API key").WithCause(err)
	default:
		return errors.ServiceUnavailable(ReasonAnalysisUnavailable, "the analysis service request failed").WithCause(err)
	}
}

func keyUnavailable(err error) error {
	return errors.Unauthorized(ReasonAPIKeyRejected, "no usable API key is selected").WithCause(err)
}

func invalidResponse(message string, cause error) error {
	e := errors.New(502, ReasonAnalysisInvalid, message)
	if cause != nil {
		return e.WithCause(cause)
	}
	return e
}
