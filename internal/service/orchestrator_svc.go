package service

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"
)

// ==================== 回退编排 ====================

// 回退阶段（显式状态机，不写成嵌套条件）
// Start -> PrimaryJson -> RuntimeState -> Dom -> Contingency -> Done
type scrapeStage int

const (
	stagePrimaryJSON scrapeStage = iota
	stageRuntimeState
	stageDom
	stageContingency
	stageDone
)

// 阶段名（诊断标签）
var stageNames = map[scrapeStage]string{
	stagePrimaryJSON:  "primary_json",
	stageRuntimeState: "runtime_state",
	stageDom:          "dom",
	stageContingency:  "contingency",
}

// DOM 兜底阶段最多处理的容器数
const domContainerLimit = 20

// 瞬时错误在本阶段内最多重试次数
const maxStageRetries = 2

// OrchestratorService 回退编排器
// 依次尝试各抓取策略，返回第一个非空结果；从不报错，
// 全部失败时返回空列表并带上最后尝试阶段的诊断标签
type OrchestratorService struct {
	Marketplace *MarketplaceService
	Parser      *ParserService
	Scorer      *ScorerService

	// 可注入的退避睡眠，测试时替换掉避免真实等待
	sleep func(time.Duration)
}

// NewOrchestratorService 创建编排器
func NewOrchestratorService(marketplace *MarketplaceService, parser *ParserService, scorer *ScorerService) *OrchestratorService {
	return &OrchestratorService{
		Marketplace: marketplace,
		Parser:      parser,
		Scorer:      scorer,
		sleep:       time.Sleep,
	}
}

// Scrape 执行完整回退链
// 拿到评论后统一走完整口径打分、按分数降序排序并附聚合统计
func (o *OrchestratorService) Scrape(ctx context.Context, productID, sellerID string, page, pageSize int) *ScrapeResult {
	run := &scrapeRun{orchestrator: o}
	state := stagePrimaryJSON
	lastStage := stagePrimaryJSON

	var reviews []ScrapedReview
	for state != stageDone {
		lastStage = state
		result, next := run.execute(ctx, state, productID, sellerID, page, pageSize)
		if len(result) > 0 {
			reviews = result
			break
		}
		state = next
	}

	return o.finalize(reviews, stageNames[lastStage])
}

// finalize 打分、排序、聚合
func (o *OrchestratorService) finalize(reviews []ScrapedReview, stage string) *ScrapeResult {
	for i := range reviews {
		o.Scorer.Apply(&reviews[i])
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].QualityScore > reviews[j].QualityScore
	})

	stats := ScrapeStats{Total: len(reviews)}
	var scoreSum, ratingSum float64
	for _, r := range reviews {
		if len(r.Images) > 0 {
			stats.WithPhotos++
		}
		if r.Recommended {
			stats.Recommended++
		}
		scoreSum += r.QualityScore
		ratingSum += float64(r.Rating)
	}
	if stats.Total > 0 {
		stats.AvgScore = scoreSum / float64(stats.Total)
		stats.AvgRating = ratingSum / float64(stats.Total)
	}

	if reviews == nil {
		reviews = []ScrapedReview{}
	}
	return &ScrapeResult{Reviews: reviews, Stats: stats, Stage: stage}
}

// ==================== 单次运行 ====================

// scrapeRun 一次抓取过程的运行态
// 详情页 HTML 在 RuntimeState 和 Dom 两个阶段间复用，只拉一次
type scrapeRun struct {
	orchestrator *OrchestratorService
	pageHTML     string
	pageFetched  bool
}

// execute 运行一个阶段，返回该阶段结果与下一状态
// 瞬时错误在阶段内重试（带 1-3s 抖动退避），Blocked/NotFound 立即推进
func (r *scrapeRun) execute(ctx context.Context, state scrapeStage, productID, sellerID string, page, pageSize int) ([]ScrapedReview, scrapeStage) {
	for attempt := 0; ; attempt++ {
		reviews, transient := r.runStage(ctx, state, productID, sellerID, page, pageSize)
		if len(reviews) > 0 {
			return reviews, stageDone
		}
		if !transient || attempt >= maxStageRetries {
			return nil, state + 1
		}
		log.Printf("抓取阶段 %s 瞬时失败，第 %d 次重试", stageNames[state], attempt+1)
		r.orchestrator.sleep(backoffJitter())
	}
}

// runStage 各阶段的具体动作，第二个返回值表示是否瞬时失败
func (r *scrapeRun) runStage(ctx context.Context, state scrapeStage, productID, sellerID string, page, pageSize int) ([]ScrapedReview, bool) {
	o := r.orchestrator

	switch state {
	case stagePrimaryJSON:
		result := o.Marketplace.FetchFeedback(ctx, productID, sellerID, page, pageSize)
		if result.Kind == FetchTransient {
			return nil, true
		}
		if result.Kind == FetchJSON {
			return o.Parser.ParseFeedbackJSON(result.JSON), false
		}
		return nil, false

	case stageRuntimeState:
		html, transient := r.productPage(ctx, productID)
		if transient {
			return nil, true
		}
		blob := o.Parser.ExtractRuntimeState(html)
		if blob == nil {
			return nil, false
		}
		return o.Parser.ParseRuntimeState(blob), false

	case stageDom:
		html, transient := r.productPage(ctx, productID)
		if transient {
			return nil, true
		}
		return o.Parser.ParseDOM(html, domContainerLimit), false

	case stageContingency:
		result := o.Marketplace.FetchViaProxy(ctx, productID, sellerID, page)
		if result.Kind == FetchTransient {
			return nil, true
		}
		if result.Kind == FetchHTML {
			// 兜底端点回 HTML，照常走 DOM 解析；该阶段允许合法空结果
			return o.Parser.ParseDOM(result.HTML, domContainerLimit), false
		}
		if result.Kind == FetchJSON {
			return o.Parser.ParseFeedbackJSON(result.JSON), false
		}
		return nil, false

	default:
		return nil, false
	}
}

// productPage 拉取并缓存详情页 HTML
func (r *scrapeRun) productPage(ctx context.Context, productID string) (string, bool) {
	if r.pageFetched {
		return r.pageHTML, false
	}
	result := r.orchestrator.Marketplace.FetchProductPage(ctx, productID)
	if result.Kind == FetchTransient {
		return "", true
	}
	r.pageHTML = result.HTML
	r.pageFetched = true
	return r.pageHTML, false
}

// backoffJitter 1-3 秒抖动退避
func backoffJitter() time.Duration {
	return time.Duration(1000+rand.Intn(2000)) * time.Millisecond
}
