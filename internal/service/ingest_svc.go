package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
)

// ==================== 请求/结果结构 ====================

// ImportFilters 导入过滤条件，零值表示不过滤
type ImportFilters struct {
	MinQualityScore float64 `json:"min_quality_score"`
	RequirePhotos   bool    `json:"require_photos"`
	MinRating       int     `json:"min_rating"`
}

// ImportResult 单条导入结果
type ImportResult struct {
	ReviewID         int64  `json:"review_id"`
	ProductID        int64  `json:"product_id"`
	ShopifyProductID string `json:"shopify_product_id"`
}

// BulkImportResult 批量导入结果
type BulkImportResult struct {
	JobID      int64    `json:"job_id"`
	Imported   int      `json:"imported_count"`
	Failed     int      `json:"failed_count"`
	Skipped    int      `json:"skipped_count"`
	SkippedIDs []string `json:"skipped_ids"`
}

// ==================== 服务实现 ====================

// IngestService 评论写入链路
// 负责归属实体的解析/懒创建、去重三元组、配额与媒体落库
type IngestService struct {
	ShopRepo    repository.ShopRepository
	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	ImportRepo  repository.ImportJobRepository
	Scorer      *ScorerService
	Skips       *SkipRegistry
}

// NewIngestService 创建写入服务
func NewIngestService(
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	importRepo repository.ImportJobRepository,
	scorer *ScorerService,
	skips *SkipRegistry,
) *IngestService {
	return &IngestService{
		ShopRepo:    shopRepo,
		ProductRepo: productRepo,
		ReviewRepo:  reviewRepo,
		ImportRepo:  importRepo,
		Scorer:      scorer,
		Skips:       skips,
	}
}

// ==================== 单条导入 ====================

// ImportSingle 导入一条评论
// 过滤/跳过/去重/配额的任一不通过都以对应错误类别返回
func (s *IngestService) ImportSingle(
	ctx context.Context,
	shopID int64,
	shopifyProductID string,
	review *ScrapedReview,
	sourcePlatform string,
	filters *ImportFilters,
	sessionID string,
) (*ImportResult, error) {
	// 1. 解析店铺；卸载的店铺不再接受写入
	shop, err := s.ShopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("查询店铺失败: %w", err)
	}
	if shop.Status != model.ShopStatusActive {
		return nil, ErrShopNotFound
	}
	// 应用层预判配额，省掉后面的无谓写入；权威判定在事务内的条件 UPDATE
	if shop.IsQuotaExhausted() {
		return nil, ErrQuotaExceeded
	}

	// 2. 星级校验：上游偶见百分制残留，超范围直接拒绝不做二次折算
	if review.Rating < 1 || review.Rating > 5 {
		return nil, ErrInvalidRating
	}

	// 3. 统一按完整口径重算质量分，保证 ai_recommended 恒等于 score>=7
	s.Scorer.Apply(review)

	// 4. 过滤条件
	if err := s.applyFilters(review, filters); err != nil {
		return nil, err
	}

	// 5. 跳过登记
	if s.Skips != nil && s.Skips.IsSkipped(sessionID, review.ID) {
		return nil, ErrSkipped
	}

	// 6. 商品懒创建，来源信息取自评论
	platform := sourcePlatform
	if platform == "" {
		platform = review.Platform
	}
	product, _, err := s.ProductRepo.GetOrCreate(ctx, &model.Product{
		ShopID:           shopID,
		ShopifyProductID: shopifyProductID,
		SourcePlatform:   platform,
	})
	if err != nil {
		return nil, fmt.Errorf("解析商品失败: %w", err)
	}

	// 7. 事务：配额条件自增 + 评论插入 + 媒体插入
	// 三元组冲突回滚时自增一并撤销，计数不漂移
	var reviewID int64
	err = s.ReviewRepo.Transaction(ctx, func(tx *gorm.DB) error {
		consumed, err := s.ShopRepo.WithTx(tx).ConsumeQuota(ctx, shopID)
		if err != nil {
			return fmt.Errorf("配额更新失败: %w", err)
		}
		if !consumed {
			return ErrQuotaExceeded
		}

		row := &model.Review{
			ShopID:           shopID,
			ProductID:        product.ID,
			ShopifyProductID: shopifyProductID,
			SourcePlatform:   platform,
			SourceReviewID:   review.ID,
			Rating:           review.Rating,
			Content:          review.Text,
			Translation:      review.Translation,
			ReviewerName:     review.ReviewerName,
			Country:          review.Country,
			Verified:         review.Verified,
			ReviewDate:       review.Date,
			QualityScore:     review.QualityScore,
			AiRecommended:    review.Recommended,
			Sentiment:        review.Sentiment,
			Status:           model.ReviewStatusPending,
			ImportedAt:       time.Now(),
		}
		if err := s.ReviewRepo.WithTx(tx).Create(ctx, row); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("评论写入失败: %w", err)
		}

		media := make([]model.ReviewMedia, 0, len(review.Images))
		for _, img := range review.Images {
			media = append(media, model.ReviewMedia{
				ReviewID:  row.ID,
				MediaType: model.MediaTypeImage,
				URL:       img,
			})
		}
		if err := s.ReviewRepo.WithTx(tx).CreateMedia(ctx, media); err != nil {
			return fmt.Errorf("媒体写入失败: %w", err)
		}

		reviewID = row.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		ReviewID:         reviewID,
		ProductID:        product.ID,
		ShopifyProductID: shopifyProductID,
	}, nil
}

// applyFilters 过滤条件判定
func (s *IngestService) applyFilters(review *ScrapedReview, filters *ImportFilters) error {
	if filters == nil {
		return nil
	}
	if filters.MinQualityScore > 0 && review.QualityScore < filters.MinQualityScore {
		return ErrFilteredOut
	}
	if filters.RequirePhotos && len(review.Images) == 0 {
		return ErrFilteredOut
	}
	if filters.MinRating > 0 && review.Rating < filters.MinRating {
		return ErrFilteredOut
	}
	return nil
}

// ==================== 批量导入 ====================

// ImportBulk 批量导入
// 单条的 Duplicate/Skipped/FilteredOut 记入 skipped 继续跑，
// QuotaExceeded 与星级非法记入 failed 继续跑，
// 存储错误中断剩余部分并把任务置为 failed，计数保留已完成进度
func (s *IngestService) ImportBulk(
	ctx context.Context,
	shopID int64,
	shopifyProductID string,
	reviews []ScrapedReview,
	sourcePlatform string,
	filters *ImportFilters,
	sessionID string,
) (*BulkImportResult, error) {
	job := &model.ImportJob{
		ShopID:         shopID,
		SourcePlatform: sourcePlatform,
		TotalFound:     len(reviews),
		Status:         model.ImportStatusProcessing,
	}
	if filters != nil {
		job.FilterMinScore = filters.MinQualityScore
		job.FilterMinRating = filters.MinRating
		job.RequirePhotos = filters.RequirePhotos
	}
	if err := s.ImportRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("创建导入任务失败: %w", err)
	}

	result := &BulkImportResult{JobID: job.ID, SkippedIDs: []string{}}

	for i := range reviews {
		single, err := s.ImportSingle(ctx, shopID, shopifyProductID, &reviews[i], sourcePlatform, filters, sessionID)
		switch {
		case err == nil:
			result.Imported++
			if job.ProductID == 0 {
				job.ProductID = single.ProductID
			}
		case errors.Is(err, ErrDuplicate), errors.Is(err, ErrSkipped), errors.Is(err, ErrFilteredOut):
			result.Skipped++
			result.SkippedIDs = append(result.SkippedIDs, reviews[i].ID)
		case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrInvalidRating):
			result.Failed++
		default:
			// 存储错误：中断，任务置 failed，保留部分进度
			log.Printf("批量导入中断 job=%d: %v", job.ID, err)
			_ = s.ImportRepo.Finish(ctx, job.ID, model.ImportStatusFailed,
				result.Imported, result.Failed, result.Skipped, err.Error())
			return result, err
		}
	}

	if job.ProductID != 0 {
		_ = s.ImportRepo.Update(ctx, job)
	}
	if err := s.ImportRepo.Finish(ctx, job.ID, model.ImportStatusCompleted,
		result.Imported, result.Failed, result.Skipped, ""); err != nil {
		return result, fmt.Errorf("更新导入任务失败: %w", err)
	}
	return result, nil
}

// Skip 登记跳过
func (s *IngestService) Skip(sessionID, reviewID string) {
	s.Skips.Mark(sessionID, reviewID)
}

// ListJobs 店铺维度的导入任务列表
func (s *IngestService) ListJobs(ctx context.Context, shopID int64, page, pageSize int) ([]model.ImportJob, int64, error) {
	return s.ImportRepo.ListByShop(ctx, shopID, page, pageSize)
}

// ==================== 审核操作 ====================

// 合法的状态流转：pending -> published / hidden / deleted，published <-> hidden，* -> deleted
var allowedTransitions = map[string][]string{
	model.ReviewStatusPending:   {model.ReviewStatusPublished, model.ReviewStatusHidden, model.ReviewStatusDeleted},
	model.ReviewStatusPublished: {model.ReviewStatusHidden, model.ReviewStatusDeleted},
	model.ReviewStatusHidden:    {model.ReviewStatusPublished, model.ReviewStatusDeleted},
}

// UpdateReviewStatus 审核状态流转，配额计数随计入状态增减
func (s *IngestService) UpdateReviewStatus(ctx context.Context, reviewID int64, newStatus string) error {
	review, err := s.ReviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("评论不存在")
		}
		return err
	}

	if !transitionAllowed(review.Status, newStatus) {
		return fmt.Errorf("非法的状态流转: %s -> %s", review.Status, newStatus)
	}

	wasCounted := review.CountsTowardQuota()
	willCount := newStatus == model.ReviewStatusPending || newStatus == model.ReviewStatusPublished

	return s.ReviewRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.ReviewRepo.WithTx(tx).UpdateStatus(ctx, reviewID, newStatus); err != nil {
			return err
		}
		switch {
		case wasCounted && !willCount:
			return s.ShopRepo.WithTx(tx).ReleaseQuota(ctx, review.ShopID)
		case !wasCounted && willCount:
			// 重新上架走无条件补增；配额上限只拦新导入，不拦恢复
			return s.ShopRepo.WithTx(tx).UpdateFields(ctx, review.ShopID, map[string]interface{}{
				"reviews_imported": gorm.Expr("reviews_imported + 1"),
			})
		}
		return nil
	})
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
