package service

import (
	"bytes"
	"context"
	"devpath_backend/internal/config"
	"devpath_backend/internal/util"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// runtimeVersions 语言到运行时版本的静态映射。游乐场只透传这张表里
// 的语言，版本随执行服务的部署更新。
var runtimeVersions = map[string]string{
	"c":          "10.2.0",
	"cpp":        "10.2.0",
	"go":         "1.16.2",
	"java":       "15.0.2",
	"javascript": "18.15.0",
	"python":     "3.10.0",
	"rust":       "1.68.2",
	"typescript": "5.0.3",
}

// Runtime 可用运行时
// swagger:model Runtime
type Runtime struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

// ExecuteRequest 学习者提交的一次执行
// swagger:model ExecuteRequest
type ExecuteRequest struct {
	Language string `json:"language" binding:"required"`
	Source   string `json:"source" binding:"required"`
	Stdin    string `json:"stdin"`
}

// ExecuteResult 执行服务的转发结果
// swagger:model ExecuteResult
type ExecuteResult struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin,omitempty"`
}

type pistonResponse struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Run      struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"run"`
}

// PlaygroundService 代码游乐场网关：校验语言后原样转发到沙箱执行服务，
// 不包含任何判题或评分逻辑。
type PlaygroundService struct {
	cfg    *config.RunnerConfig
	client *http.Client
}

func NewPlaygroundService(cfg *config.RunnerConfig) *PlaygroundService {
	return &PlaygroundService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Runtimes 返回静态运行时表，供编辑器填充语言下拉框
func (s *PlaygroundService) Runtimes() []Runtime {
	runtimes := make([]Runtime, 0, len(runtimeVersions))
	for lang, version := range runtimeVersions {
		runtimes = append(runtimes, Runtime{Language: lang, Version: version})
	}
	sort.Slice(runtimes, func(i, j int) bool { return runtimes[i].Language < runtimes[j].Language })
	return runtimes
}

// Execute 转发一次执行并中继 stdout/stderr/退出码
func (s *PlaygroundService) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	version, ok := runtimeVersions[req.Language]
	if !ok {
		return nil, util.ErrUnsupportedLanguage
	}

	payload := pistonRequest{
		Language: req.Language,
		Version:  version,
		Files:    []pistonFile{{Name: "main", Content: req.Source}},
		Stdin:    req.Stdin,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/api/v2/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrRunnerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", util.ErrRunnerUnavailable, resp.StatusCode)
	}

	var out pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrRunnerUnavailable, err)
	}

	return &ExecuteResult{
		Language: out.Language,
		Version:  out.Version,
		Stdout:   out.Run.Stdout,
		Stderr:   out.Run.Stderr,
		ExitCode: out.Run.Code,
	}, nil
}
