package service

import (
	"strings"
	"testing"
)

// ==================== 测试数据 ====================

const domSampleHTML = `<html><body>
<div class="feedback-list">
  <div class="itemWrapper">
    <div class="user-info">John D. | 12 Mar 2025</div>
    <div class="review-content">Great quality product, very satisfied with the purchase</div>
    <span class="star-filled"></span><span class="star-filled"></span>
    <span class="star-filled"></span><span class="star-filled"></span>
    <img class="buyer-avatar" src="https://ae01.alicdn.com/kf/avatar.jpg">
    <img src="//ae01.alicdn.com/kf/photo1.jpg">
  </div>
  <div class="itemWrapper">
    <div class="user-info">Anna K.</div>
    <div class="review-content">ok</div>
  </div>
  <div class="itemWrapper">
    <div class="review-content">Arrived quickly and works as expected</div>
  </div>
</div>
</body></html>`

// ==================== 单元测试 ====================

func TestParserService_ParseDOM(t *testing.T) {
	parser := NewParserService()

	reviews := parser.ParseDOM(domSampleHTML, 0)
	// 第二个容器正文太短要丢弃
	if len(reviews) != 2 {
		t.Fatalf("评论数 = %d, 期望 2", len(reviews))
	}

	first := reviews[0]
	if first.ReviewerName != "John D." {
		t.Errorf("ReviewerName = %q, 期望 John D.", first.ReviewerName)
	}
	if first.Date != "12 Mar 2025" {
		t.Errorf("Date = %q, 期望 12 Mar 2025", first.Date)
	}
	if !strings.Contains(first.Text, "Great quality product") {
		t.Errorf("Text = %q", first.Text)
	}
	if first.Rating != 4 {
		t.Errorf("实心星计数 Rating = %d, 期望 4", first.Rating)
	}
	// 头像要剔除，正文图片协议补全
	if len(first.Images) != 1 || first.Images[0] != "https://ae01.alicdn.com/kf/photo1.jpg" {
		t.Errorf("Images = %v", first.Images)
	}
	if first.ID == "" || !strings.HasPrefix(first.ID, "dom-") {
		t.Errorf("DOM 评论缺少稳定标识: %q", first.ID)
	}

	second := reviews[1]
	if second.ReviewerName != "Customer" {
		t.Errorf("无署名容器应回落到 Customer: %q", second.ReviewerName)
	}
	if second.Rating != 5 {
		t.Errorf("无星级节点应回落到 5: %d", second.Rating)
	}
}

func TestParserService_ParseDOM_StableID(t *testing.T) {
	parser := NewParserService()

	a := parser.ParseDOM(domSampleHTML, 0)
	b := parser.ParseDOM(domSampleHTML, 0)
	if len(a) != len(b) {
		t.Fatalf("两次解析数量不一致: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("第 %d 条两次解析 ID 不一致: %s != %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestParserService_ParseDOM_Limit(t *testing.T) {
	parser := NewParserService()

	var sb strings.Builder
	sb.WriteString(`<div class="feedback-list">`)
	for i := 0; i < 30; i++ {
		sb.WriteString(`<div class="itemWrapper"><div class="review-content">A sufficiently long review body number `)
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString(`</div></div>`)
	}
	sb.WriteString(`</div>`)

	reviews := parser.ParseDOM(sb.String(), 20)
	if len(reviews) != 20 {
		t.Errorf("评论数 = %d, 期望受 limit 限制为 20", len(reviews))
	}
}

func TestParserService_ParseDOM_NoContainers(t *testing.T) {
	parser := NewParserService()

	reviews := parser.ParseDOM("<html><body><p>nothing here</p></body></html>", 0)
	if reviews == nil {
		t.Fatal("无容器页面应返回空列表而非 nil")
	}
	if len(reviews) != 0 {
		t.Errorf("评论数 = %d, 期望 0", len(reviews))
	}
}
