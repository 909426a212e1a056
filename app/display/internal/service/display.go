package service

import (
	"context"
	"io"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/editorial_lens/app/display/internal/usecase"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/report"
)

// ErrNoResult 还没有可展示的分析结果
var ErrNoResult = errors.NotFound("NO_RESULT", "no analysis result yet")

type IngestReq struct {
	Text string `json:"text"`
}

type IngestReply struct {
	RowCount int `json:"rowCount"`
}

type SelectKeyReq struct {
	APIKey string `json:"api_key"`
}

type KeyReply struct {
	HasKey bool `json:"hasKey"`
}

// SessionReply 会话快照，页面据此决定显示 Key 选择页还是工作区
type SessionReply struct {
	HasKey         *bool                 `json:"hasKey"`
	InputText      string                `json:"inputText"`
	RowCount       int                   `json:"rowCount"`
	Analyzing      bool                  `json:"analyzing"`
	Error          string                `json:"error,omitempty"`
	Result         *model.AnalysisResult `json:"result,omitempty"`
	Reconciliation string                `json:"reconciliation,omitempty"`
}

type DisplayService struct {
	uc  *usecase.SessionUseCase
	log *log.Helper
}

func NewDisplayService(uc *usecase.SessionUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *DisplayService) GetSession(ctx context.Context) (*SessionReply, error) {
	return s.snapshot(), nil
}

func (s *DisplayService) Ingest(ctx context.Context, req *IngestReq) (*IngestReply, error) {
	n, err := s.uc.Ingest(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	s.log.Infof("ingested %d rows", n)
	return &IngestReply{RowCount: n}, nil
}

// Analyze 分析完成后返回最新快照。失败时错误里带着展示给用户的提示。
func (s *DisplayService) Analyze(ctx context.Context) (*SessionReply, error) {
	if err := s.uc.Analyze(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *DisplayService) Reset(ctx context.Context) (*SessionReply, error) {
	s.uc.Reset()
	return s.snapshot(), nil
}

func (s *DisplayService) KeyStatus(ctx context.Context) (*KeyReply, error) {
	snap := s.uc.Snapshot()
	return &KeyReply{HasKey: snap.HasKey != nil && *snap.HasKey}, nil
}

func (s *DisplayService) SelectKey(ctx context.Context, req *SelectKeyReq) (*KeyReply, error) {
	if err := s.uc.SelectKey(ctx, req.APIKey); err != nil {
		return nil, err
	}
	return &KeyReply{HasKey: true}, nil
}

// RenderReport 将当前结果渲染为 HTML 报告
func (s *DisplayService) RenderReport(ctx context.Context, w io.Writer) error {
	snap := s.uc.Snapshot()
	if snap.Result == nil {
		return ErrNoResult
	}
	return report.RenderHTML(w, report.Build(snap.Result, len(snap.Rows)))
}

func (s *DisplayService) snapshot() *SessionReply {
	snap := s.uc.Snapshot()
	reply := &SessionReply{
		HasKey:    snap.HasKey,
		InputText: snap.InputText,
		RowCount:  len(snap.Rows),
		Analyzing: snap.Analyzing,
		Error:     snap.Error,
		Result:    snap.Result,
	}
	if snap.Result != nil {
		reply.Reconciliation = report.Reconciliation(snap.Result.TotalRecordsAnalyzed, len(snap.Rows))
	}
	return reply
}
