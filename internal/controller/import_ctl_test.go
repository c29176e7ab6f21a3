package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
	"review_import_v1_202509/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试辅助 ====================

func setupImportCtlTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.ShopOwner{},
		&model.Shop{},
		&model.Product{},
		&model.Review{},
		&model.ReviewMedia{},
		&model.ImportJob{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func setupImportCtlRouter(db *gorm.DB) *gin.Engine {
	ingest := service.NewIngestService(
		repository.NewShopRepository(db),
		repository.NewProductRepository(db),
		repository.NewReviewRepository(db),
		repository.NewImportJobRepository(db),
		service.NewScorerService(),
		service.NewSkipRegistry(),
	)
	ctrl := NewImportController(ingest)

	r := gin.New()
	r.POST("/admin/reviews/skip", ctrl.Skip)
	r.POST("/admin/reviews/import/single", ctrl.ImportSingle)
	r.POST("/admin/reviews/import/bulk", ctrl.ImportBulk)
	r.PUT("/admin/reviews/:id/status", ctrl.UpdateStatus)
	r.GET("/admin/imports", ctrl.ListJobs)
	return r
}

func seedCtlShop(t *testing.T, db *gorm.DB, plan string, limit, imported int) *model.Shop {
	shop := &model.Shop{
		ShopifyDomain:   "ctl.myshopify.com",
		PublicShopID:    "pub-ctl",
		Plan:            plan,
		ReviewLimit:     limit,
		ReviewsImported: imported,
		Status:          model.ShopStatusActive,
	}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("创建店铺失败: %v", err)
	}
	return shop
}

func performJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func singleImportBody(shopID int64, reviewID string) map[string]interface{} {
	return map[string]interface{}{
		"shop_id":            shopID,
		"hosting_product_id": "gid-1001",
		"review": map[string]interface{}{
			"id":            reviewID,
			"reviewer_name": "A***a",
			"text":          "Excellent quality, exactly as described, fast shipping and great value",
			"rating":        5,
			"verified":      true,
			"platform":      "aliexpress",
		},
	}
}

// ==================== 单元测试 ====================

func TestImportController_ImportSingle(t *testing.T) {
	db := setupImportCtlTestDB(t)
	shop := seedCtlShop(t, db, model.PlanFree, 50, 0)
	router := setupImportCtlRouter(db)

	w := performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(shop.ID, "60012345678"))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotZero(t, resp["review_id"])
}

func TestImportController_ImportSingle_ErrorCodes(t *testing.T) {
	db := setupImportCtlTestDB(t)
	shop := seedCtlShop(t, db, model.PlanFree, 50, 0)
	router := setupImportCtlRouter(db)

	// 首次导入成功
	w := performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(shop.ID, "dup-1"))
	assert.Equal(t, http.StatusOK, w.Code)

	// 重复导入 -> 409
	w = performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(shop.ID, "dup-1"))
	assert.Equal(t, http.StatusConflict, w.Code)

	// 未知店铺 -> 404
	w = performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(9999, "x-1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 配额满 -> 402
	db.Model(&model.Shop{}).Where("id = ?", shop.ID).Update("reviews_imported", 50)
	w = performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(shop.ID, "q-1"))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	// 缺少必填参数 -> 400
	w = performJSON(router, http.MethodPost, "/admin/reviews/import/single", map[string]interface{}{"shop_id": shop.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportController_ImportBulk(t *testing.T) {
	db := setupImportCtlTestDB(t)
	shop := seedCtlShop(t, db, model.PlanFree, 50, 0)
	router := setupImportCtlRouter(db)

	reviews := make([]map[string]interface{}, 0, 3)
	for i := 0; i < 3; i++ {
		reviews = append(reviews, map[string]interface{}{
			"id":       fmt.Sprintf("b-%d", i),
			"text":     "Great quality, exactly as described and fast shipping, very happy overall",
			"rating":   5,
			"verified": true,
		})
	}
	body := map[string]interface{}{
		"shop_id":            shop.ID,
		"hosting_product_id": "gid-1001",
		"platform":           "aliexpress",
		"reviews":            reviews,
	}

	w := performJSON(router, http.MethodPost, "/admin/reviews/import/bulk", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(3), resp["imported_count"])
	assert.Equal(t, float64(0), resp["failed_count"])
	assert.NotZero(t, resp["job_id"])

	// 任务列表可查
	w = performJSON(router, http.MethodGet, fmt.Sprintf("/admin/imports?shop_id=%d", shop.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, float64(1), listResp["total"])
}

func TestImportController_UpdateStatus(t *testing.T) {
	db := setupImportCtlTestDB(t)
	shop := seedCtlShop(t, db, model.PlanFree, 50, 0)
	router := setupImportCtlRouter(db)

	w := performJSON(router, http.MethodPost, "/admin/reviews/import/single", singleImportBody(shop.ID, "s-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	reviewID := int64(resp["review_id"].(float64))

	// 发布
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/reviews/%d/status", reviewID),
		map[string]string{"status": "published"})
	assert.Equal(t, http.StatusOK, w.Code)

	var row model.Review
	assert.NoError(t, db.First(&row, reviewID).Error)
	assert.Equal(t, model.ReviewStatusPublished, row.Status)

	// 目标状态不在白名单 -> 400
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/reviews/%d/status", reviewID),
		map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法 ID -> 400
	w = performJSON(router, http.MethodPut, "/admin/reviews/abc/status",
		map[string]string{"status": "published"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportController_Skip(t *testing.T) {
	db := setupImportCtlTestDB(t)
	shop := seedCtlShop(t, db, model.PlanFree, 50, 0)
	router := setupImportCtlRouter(db)

	w := performJSON(router, http.MethodPost, "/admin/reviews/skip",
		map[string]string{"session_id": "sess-1", "review_id": "sk-1"})
	assert.Equal(t, http.StatusOK, w.Code)

	// 同会话导入同 ID 被拒
	body := singleImportBody(shop.ID, "sk-1")
	body["session_id"] = "sess-1"
	w = performJSON(router, http.MethodPost, "/admin/reviews/import/single", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 缺参数 -> 400
	w = performJSON(router, http.MethodPost, "/admin/reviews/skip", map[string]string{"review_id": "sk-2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
