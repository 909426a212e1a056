package usecase

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/editorial_lens/app/display/internal/domain"
	"github.com/iWorld-y/editorial_lens/app/display/internal/repo"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/gateway"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/ingest"
)

// 展示给用户的错误提示
const (
	MsgKeyIssue       = "API Key issue. Please re-select your API key."
	MsgAnalysisFailed = "Analysis failed. Try checking your dataset for special characters or reducing row count slightly."
)

var (
	ErrNoRows     = errors.BadRequest("NO_ROWS", "no valid rows to analyze")
	ErrInFlight   = errors.Conflict("ANALYSIS_IN_FLIGHT", "an analysis is already running")
	ErrKeyMissing = errors.Unauthorized("API_KEY_REQUIRED", "select an API key first")
)

// SessionUseCase 会话控制器，独占持有解析出的记录和分析结果。
// 网关本身不可重入，这里通过 Analyzing 标记保证同一时刻只有一次分析。
type SessionUseCase struct {
	gate repo.KeyGate
	gw   repo.AnalysisGateway
	log  *log.Helper

	mu    sync.Mutex
	state domain.Session
	gen   int // 每次 Reset 递增，丢弃重置前发起的分析结果
}

// NewSessionUseCase 创建会话控制器
func NewSessionUseCase(gate repo.KeyGate, gw repo.AnalysisGateway, logger log.Logger) *SessionUseCase {
	return &SessionUseCase{gate: gate, gw: gw, log: log.NewHelper(logger)}
}

// Start 启动时检查一次是否已选择 API Key
func (uc *SessionUseCase) Start(ctx context.Context) error {
	has, err := uc.gate.HasSelectedAPIKey(ctx)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	uc.state.HasKey = &has
	uc.mu.Unlock()
	uc.log.Infof("api key selected: %v", has)
	return nil
}

// SelectKey 选择新的 API Key，完成后直接视为成功，不再二次校验
func (uc *SessionUseCase) SelectKey(ctx context.Context, apiKey string) error {
	if err := uc.gate.OpenSelectKey(ctx, apiKey); err != nil {
		return err
	}
	has := true
	uc.mu.Lock()
	uc.state.HasKey = &has
	uc.mu.Unlock()
	return nil
}

// Ingest 解析输入文本。成功时整体替换记录并清除错误；失败时保留原有记录。
func (uc *SessionUseCase) Ingest(ctx context.Context, text string) (int, error) {
	rows, err := ingest.Parse(text)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state.InputText = text
	if err != nil {
		uc.state.Error = ingest.ParseHint
		return len(uc.state.Rows), errors.BadRequest(errors.Reason(err), ingest.ParseHint).WithCause(err)
	}
	uc.state.Rows = rows
	uc.state.Error = ""
	return len(rows), nil
}

// Analyze 对当前记录发起一次分析。失败时不保存任何部分结果。
func (uc *SessionUseCase) Analyze(ctx context.Context) error {
	uc.mu.Lock()
	switch {
	case uc.state.Analyzing:
		uc.mu.Unlock()
		return ErrInFlight
	case len(uc.state.Rows) == 0:
		uc.mu.Unlock()
		return ErrNoRows
	case uc.state.HasKey != nil && !*uc.state.HasKey:
		uc.mu.Unlock()
		return ErrKeyMissing
	}
	uc.state.Analyzing = true
	uc.state.Error = ""
	rows := uc.state.Rows
	gen := uc.gen
	uc.mu.Unlock()

	result, err := uc.gw.Analyze(ctx, rows)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state.Analyzing = false
	if gen != uc.gen {
		uc.log.Warn("session was reset while the analysis was running, discarding outcome")
		return nil
	}
	if err != nil {
		uc.log.Errorf("analysis of %d rows failed: %v", len(rows), err)
		if gateway.Classify(err) == gateway.KindUnauthorized {
			has := false
			uc.state.HasKey = &has
			uc.state.Error = MsgKeyIssue
			return errors.Unauthorized(errors.Reason(err), MsgKeyIssue).WithCause(err)
		}
		uc.state.Error = MsgAnalysisFailed
		return errors.New(errors.Code(err), errors.Reason(err), MsgAnalysisFailed).WithCause(err)
	}
	uc.state.Result = result
	return nil
}

// Reset 丢弃记录、结果和错误，Key 状态与进行中的标记保持不变
func (uc *SessionUseCase) Reset() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.gen++
	uc.state = domain.Session{HasKey: uc.state.HasKey, Analyzing: uc.state.Analyzing}
}

// Snapshot 返回当前状态的副本。记录与结果只会被整体替换，可以共享底层数据。
func (uc *SessionUseCase) Snapshot() domain.Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.state
	if s.HasKey != nil {
		has := *s.HasKey
		s.HasKey = &has
	}
	return s
}
