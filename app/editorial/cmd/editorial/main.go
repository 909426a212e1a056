package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/config"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/gateway"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/ingest"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/logger"
	dm "github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/report"
)

// dataset 一个输入文件及其解析结果
type dataset struct {
	path string
	rows []dm.ContentRow
	err  error
}

func main() {
	confPath := flag.String("conf", "app/editorial/configs/config.yaml", "config path, eg: -conf config.yaml")
	outDir := flag.String("out", "", "report output directory, overrides report.output_dir")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: editorial [-conf config.yaml] [-out dir] file.csv [file.csv ...]")
		os.Exit(2)
	}

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if *outDir != "" {
		cfg.Report.OutputDir = *outDir
	}
	if cfg.LLM.APIKey == "" {
		log.Fatalf("配置错误: 未设置 llm.api_key 或环境变量 %s", config.APIKeyEnv)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动编辑表现分析...")

	ctx := context.Background()

	// 3. 并发读取并解析所有输入文件
	datasets := loadDatasets(ctx, flag.Args())

	// 4. 逐个分析，网关不可重入
	gw := gateway.New(
		gateway.NewOpenAIFactory(cfg.LLM),
		gateway.StaticKey(cfg.LLM.APIKey),
		gateway.WithLimiter(gateway.NewLimiter(cfg.Concurrency)),
		gateway.WithKeywords(cfg.Analysis.Keywords...),
	)

	names := reportNames(flag.Args())
	failed := 0
	for i, ds := range datasets {
		if ds.err != nil {
			logger.Log.Errorf("解析失败 [%s]: %v", ds.path, ds.err)
			failed++
			continue
		}
		logger.Log.Infof("文件 [%s] 共 %d 条有效记录", ds.path, len(ds.rows))

		result, err := gw.Analyze(ctx, ds.rows)
		if err != nil {
			logger.Log.Errorf("分析失败 [%s] (%s): %v", ds.path, gateway.Classify(err), err)
			failed++
			continue
		}

		out := filepath.Join(cfg.Report.OutputDir, names[i])
		if err := report.WriteFile(out, report.Build(result, len(ds.rows))); err != nil {
			logger.Log.Errorf("生成 HTML 失败 [%s]: %v", ds.path, err)
			failed++
			continue
		}
		logger.Log.Infof("✅ 报告已生成: %s", out)
	}

	if failed > 0 {
		logger.Log.Errorf("%d/%d 个文件处理失败", failed, len(datasets))
		os.Exit(1)
	}
}

// loadDatasets 并发读取文件，单个文件失败不影响其他文件
func loadDatasets(ctx context.Context, paths []string) []dataset {
	datasets := make([]dataset, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			datasets[i] = dataset{path: path}
			f, err := os.Open(path)
			if err != nil {
				datasets[i].err = err
				return nil
			}
			defer f.Close()

			datasets[i].rows, datasets[i].err = ingest.ParseReader(f)
			return nil
		})
	}
	_ = g.Wait()

	return datasets
}

// reportNames 按输入文件名生成报告名，重名时追加序号
func reportNames(paths []string) []string {
	names := make([]string, len(paths))
	used := make(map[string]bool, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		name := stem + ".html"
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d.html", stem, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}
