package controller

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/api/dto"
	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
	"review_import_v1_202509/internal/service"
)

// WidgetController 店面 widget 出口
// 店面端点对缺失数据绝不回 5xx，渲染"暂无评论"态
type WidgetController struct {
	query *service.QueryService
	tmpl  *template.Template
}

// NewWidgetController 创建 widget 控制器
func NewWidgetController(query *service.QueryService) *WidgetController {
	return &WidgetController{
		query: query,
		tmpl:  template.Must(template.New("widget").Parse(widgetTemplate)),
	}
}

// RenderHTML 店面 HTML widget
// @Summary 渲染商品评论 widget
// @Tags Widget
// @Param public_shop_id path string true "店铺对外标识"
// @Param product_id path string true "Shopify 商品ID"
// @Produce html
// @Router /widget/{public_shop_id}/reviews/{product_id} [get]
func (ctrl *WidgetController) RenderHTML(c *gin.Context) {
	publicShopID := c.Param("public_shop_id")
	productID := c.Param("product_id")
	limit, offset := widgetPaging(c)

	ctx := c.Request.Context()
	reviews, err := ctrl.query.GetPublishedReviews(ctx, publicShopID, productID, limit, offset)
	if err != nil {
		reviews = []model.Review{}
	}
	stats, err := ctrl.query.GetStats(ctx, publicShopID, productID)
	if err != nil {
		stats = &repository.ReviewStats{}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = ctrl.tmpl.Execute(c.Writer, gin.H{
		"Reviews": reviews,
		"Stats":   stats,
	})
}

// GetJSON 店面 JSON 接口
// @Summary 商品评论 JSON
// @Tags Widget
// @Param public_shop_id path string true "店铺对外标识"
// @Param product_id path string true "Shopify 商品ID"
// @Success 200 {object} dto.WidgetResp
// @Router /widget/{public_shop_id}/reviews/{product_id}/api [get]
func (ctrl *WidgetController) GetJSON(c *gin.Context) {
	publicShopID := c.Param("public_shop_id")
	productID := c.Param("product_id")
	limit, offset := widgetPaging(c)

	reviews, err := ctrl.query.GetPublishedReviews(c.Request.Context(), publicShopID, productID, limit, offset)
	if err != nil {
		reviews = []model.Review{}
	}

	items := make([]dto.WidgetReview, 0, len(reviews))
	for _, r := range reviews {
		media := make([]dto.WidgetMedia, 0, len(r.Media))
		for _, m := range r.Media {
			media = append(media, dto.WidgetMedia{
				Type:     m.MediaType,
				URL:      m.URL,
				ThumbURL: m.ThumbURL,
			})
		}
		items = append(items, dto.WidgetReview{
			ID:           r.ID,
			ReviewerName: r.ReviewerName,
			Country:      r.Country,
			Rating:       r.Rating,
			Content:      r.Content,
			Translation:  r.Translation,
			Verified:     r.Verified,
			ReviewDate:   r.ReviewDate,
			Media:        media,
		})
	}

	c.JSON(http.StatusOK, dto.WidgetResp{
		Success:   true,
		ProductID: productID,
		Reviews:   items,
		Total:     len(items),
	})
}

func widgetPaging(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// widget 模板：店面注入用的极简结构，样式由店面主题接管
const widgetTemplate = `<div class="ri-widget">
{{if .Reviews}}
  <div class="ri-summary">{{.Stats.Count}} 条评论 · 平均 {{printf "%.1f" .Stats.MeanRating}} 星</div>
  <ul class="ri-list">
  {{range .Reviews}}
    <li class="ri-item" data-rating="{{.Rating}}">
      <span class="ri-name">{{.ReviewerName}}</span>
      <span class="ri-country">{{.Country}}</span>
      <span class="ri-rating">{{.Rating}}/5</span>
      {{if .Verified}}<span class="ri-verified">已验证购买</span>{{end}}
      <p class="ri-content">{{.Content}}</p>
      {{range .Media}}<img class="ri-img" src="{{.URL}}" loading="lazy">{{end}}
    </li>
  {{end}}
  </ul>
{{else}}
  <div class="ri-empty">暂无评论</div>
{{end}}
</div>
`
