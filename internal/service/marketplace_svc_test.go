package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ==================== 单元测试 ====================

func TestMarketplaceService_FetchFeedback_QueryParams(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"evaViewList":[]}}`))
	}))
	defer server.Close()

	svc := NewMarketplaceService(&MarketplaceConfig{
		FeedbackURL:    server.URL,
		ProductPageURL: server.URL + "/item/%s.html",
		Timeout:        5 * time.Second,
	})

	result := svc.FetchFeedback(context.Background(), "1005004632823451", "231234567", 2, 200)
	if result.Kind != FetchJSON {
		t.Fatalf("Kind = %d, 期望 FetchJSON", result.Kind)
	}

	want := map[string]string{
		"productId":     "1005004632823451",
		"ownerMemberId": "231234567",
		"lang":          "en_US",
		"country":       "US",
		"page":          "2",
		"pageSize":      "100", // 超上限要收口到 100
		"filter":        "all",
		"sort":          "complex_default",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("查询参数 %s = %s, 期望 %s", k, gotQuery[k], v)
		}
	}
}

func TestMarketplaceService_FetchFeedback_OmitsSellerWhenEmpty(t *testing.T) {
	var hasSeller bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasSeller = r.URL.Query()["ownerMemberId"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc := NewMarketplaceService(&MarketplaceConfig{FeedbackURL: server.URL})
	svc.FetchFeedback(context.Background(), "123", "", 1, 20)
	if hasSeller {
		t.Error("卖家 ID 为空时不应携带 ownerMemberId 参数")
	}
}

func TestMarketplaceService_Classify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind FetchKind
	}{
		{"JSON响应", http.StatusOK, `{"data":{}}`, FetchJSON},
		{"JSON数组响应", http.StatusOK, `[{"a":1}]`, FetchJSON},
		{"HTML响应_疑似验证页", http.StatusOK, `<html><body>captcha</body></html>`, FetchHTML},
		{"404商品不存在", http.StatusNotFound, "gone", FetchNotFound},
		{"403风控拦截", http.StatusForbidden, "denied", FetchBlocked},
		{"429限流", http.StatusTooManyRequests, "slow down", FetchBlocked},
		{"500服务端错误", http.StatusInternalServerError, "oops", FetchTransient},
		{"502网关错误", http.StatusBadGateway, "bad", FetchTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewMarketplaceService(&MarketplaceConfig{FeedbackURL: server.URL})
			result := svc.FetchFeedback(context.Background(), "123", "", 1, 20)
			if result.Kind != tt.wantKind {
				t.Errorf("Kind = %d, 期望 %d", result.Kind, tt.wantKind)
			}
		})
	}
}

func TestMarketplaceService_ConnectionErrorIsTransient(t *testing.T) {
	// 指向已关闭的端口
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := NewMarketplaceService(&MarketplaceConfig{FeedbackURL: url, Timeout: 2 * time.Second})
	result := svc.FetchFeedback(context.Background(), "123", "", 1, 20)
	if result.Kind != FetchTransient {
		t.Errorf("Kind = %d, 期望 FetchTransient", result.Kind)
	}
	if result.Err == nil {
		t.Error("连接错误应携带 Err")
	}
}

func TestMarketplaceService_FetchProductPage_AlwaysHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 详情页偶尔回 JSON 形态的 body，也按 HTML 处理
		w.Write([]byte(`{"weird":"payload"}`))
	}))
	defer server.Close()

	svc := NewMarketplaceService(&MarketplaceConfig{
		FeedbackURL:    server.URL,
		ProductPageURL: server.URL + "/item/%s.html",
	})
	result := svc.FetchProductPage(context.Background(), "123")
	if result.Kind != FetchHTML {
		t.Fatalf("Kind = %d, 期望 FetchHTML", result.Kind)
	}
	if result.HTML == "" {
		t.Error("HTML 为空")
	}
}

func TestMarketplaceService_FetchViaProxy_Unconfigured(t *testing.T) {
	svc := NewMarketplaceService(&MarketplaceConfig{FeedbackURL: "http://unused.local"})
	result := svc.FetchViaProxy(context.Background(), "123", "", 1)
	if result.Kind != FetchNotFound {
		t.Errorf("未配置兜底端点时 Kind = %d, 期望 FetchNotFound", result.Kind)
	}
}
