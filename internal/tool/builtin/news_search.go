// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builtin 内置工具
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"supplychain-agent/internal/tool"
	"supplychain-agent/pkg/metrics"
	"supplychain-agent/pkg/utils"
)

// NewsSearchToolName 新闻检索工具名
const NewsSearchToolName = "supply_chain_news_search"

const (
	newsSearchDescription = "Searches for up-to-date news, articles, and reports on supply chain events. " +
		"Use this to find information on port closures, trade tariffs, supplier issues, " +
		"natural disasters affecting logistics, and geopolitical tensions."
	newsSearchDetailDescription = "Searches for real-time news and reports about the global supply chain."

	defaultSearchBaseURL = "https://api.tavily.com"
	defaultSearchTimeout = 30 * time.Second
)

var newsSearchParams = []tool.Param{
	{
		Name:        "query",
		Type:        "string",
		Required:    true,
		Description: "A specific search query. For example: 'port congestion in Shanghai' or 'impact of semiconductor shortage on automotive industry'.",
	},
}

// NewsSearchConfig 检索上游配置；APIKey 为空时在调用时读取 TAVILY_API_KEY
type NewsSearchConfig struct {
	APIKey     string
	BaseURL    string
	Depth      string
	MaxResults int
	Timeout    time.Duration
}

// NewsSearchTool 通过 Tavily 检索供应链新闻
type NewsSearchTool struct {
	cfg    NewsSearchConfig
	client *resty.Client
}

// NewNewsSearchTool 创建检索工具，缺省值：advanced / 5 条 / 30s
func NewNewsSearchTool(cfg NewsSearchConfig) *NewsSearchTool {
	cfg.BaseURL = strings.TrimRight(utils.CoalesceString(cfg.BaseURL, defaultSearchBaseURL), "/")
	cfg.Depth = utils.CoalesceString(cfg.Depth, "advanced")
	cfg.MaxResults = utils.PositiveInt(cfg.MaxResults, 5)
	cfg.Timeout = utils.PositiveDuration(cfg.Timeout, defaultSearchTimeout)

	client := resty.New()
	client.SetTimeout(cfg.Timeout)

	return &NewsSearchTool{cfg: cfg, client: client}
}

// Name 实现 tool.Tool
func (t *NewsSearchTool) Name() string { return NewsSearchToolName }

// Description 实现 tool.Tool
func (t *NewsSearchTool) Description() string { return newsSearchDescription }

// Details 实现 tool.Tool
func (t *NewsSearchTool) Details() string {
	return tool.RenderDetails(NewsSearchToolName, newsSearchDetailDescription, newsSearchParams)
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Invoke 执行一次检索；任何失败都以文本返回
func (t *NewsSearchTool) Invoke(ctx context.Context, input string) string {
	start := time.Now()
	out, failed := t.search(ctx, input)
	metrics.ToolDuration.WithLabelValues(NewsSearchToolName).Observe(time.Since(start).Seconds())
	if failed {
		metrics.ToolErrorTotal.WithLabelValues(NewsSearchToolName).Inc()
	}
	return out
}

func (t *NewsSearchTool) search(ctx context.Context, query string) (string, bool) {
	apiKey := t.cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return "Error: TAVILY_API_KEY is not set. The search tool cannot function.", true
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(searchRequest{
			APIKey:        apiKey,
			Query:         query,
			SearchDepth:   t.cfg.Depth,
			IncludeAnswer: false,
			MaxResults:    t.cfg.MaxResults,
		}).
		Post(t.cfg.BaseURL + "/search")
	if err != nil {
		return fmt.Sprintf("Error: an unexpected error occurred during search: %v", err), true
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Sprintf("Error performing search: HTTP Status %d - %s", resp.StatusCode(), resp.String()), true
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Sprintf("Error: an unexpected error occurred during search: %v", err), true
	}
	if len(result.Results) == 0 {
		return fmt.Sprintf("No search results found for query: '%s'", query), false
	}

	blocks := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		blocks = append(blocks, fmt.Sprintf("- Title: %s\n  URL: %s\n  Snippet: %s\n", r.Title, r.URL, r.Content))
	}
	return strings.Join(blocks, "\n"), false
}
