package service

import (
	"context"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationDisplayGetSession   = "/editorial.display.v1.Display/GetSession"
	OperationDisplayIngest       = "/editorial.display.v1.Display/Ingest"
	OperationDisplayAnalyze      = "/editorial.display.v1.Display/Analyze"
	OperationDisplayReset        = "/editorial.display.v1.Display/Reset"
	OperationDisplayKeyStatus    = "/editorial.display.v1.Display/KeyStatus"
	OperationDisplaySelectKey    = "/editorial.display.v1.Display/SelectKey"
	OperationDisplayRenderReport = "/editorial.display.v1.Display/RenderReport"
)

// 上传文件的大小上限
const maxUploadBytes = 16 << 20

// RegisterDisplayHTTPServer 注册会话相关的 HTTP 路由
func RegisterDisplayHTTPServer(s *http.Server, srv *DisplayService) {
	r := s.Route("/")
	r.GET("/api/session", displayGetSessionHandler(srv))
	r.POST("/api/ingest", displayIngestHandler(srv))
	r.POST("/api/analyze", displayAnalyzeHandler(srv))
	r.POST("/api/reset", displayResetHandler(srv))
	r.GET("/api/key", displayKeyStatusHandler(srv))
	r.POST("/api/key/select", displaySelectKeyHandler(srv))
	r.GET("/report", displayRenderReportHandler(srv))
}

func displayGetSessionHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationDisplayGetSession)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetSession(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func displayIngestHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in IngestReq
		if err := bindIngest(ctx, &in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDisplayIngest)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Ingest(ctx, req.(*IngestReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// bindIngest 支持 JSON 文本和 multipart 上传的 file 字段
func bindIngest(ctx http.Context, in *IngestReq) error {
	req := ctx.Request()
	if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		return ctx.Bind(in)
	}
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return errors.BadRequest("INVALID_UPLOAD", err.Error())
	}
	f, _, err := req.FormFile("file")
	if err != nil {
		return errors.BadRequest("INVALID_UPLOAD", "missing file field")
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return errors.BadRequest("INVALID_UPLOAD", err.Error())
	}
	in.Text = string(b)
	return nil
}

func displayAnalyzeHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationDisplayAnalyze)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			// 请求一旦发出就跑完，客户端断开不影响会话状态
			return srv.Analyze(context.WithoutCancel(ctx))
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func displayResetHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationDisplayReset)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Reset(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func displayKeyStatusHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationDisplayKeyStatus)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.KeyStatus(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func displaySelectKeyHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SelectKeyReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDisplaySelectKey)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SelectKey(ctx, req.(*SelectKeyReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func displayRenderReportHandler(srv *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationDisplayRenderReport)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			var buf strings.Builder
			if err := srv.RenderReport(ctx, &buf); err != nil {
				return nil, err
			}
			return buf.String(), nil
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		w := ctx.Response()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, err = io.WriteString(w, out.(string))
		return err
	}
}
