package service

import (
	"encoding/json"
	"errors"
	"testing"
)

// ==================== 单元测试 ====================

func TestExtractorService_ExtractFromURL(t *testing.T) {
	extractor := NewExtractorService()

	tests := []struct {
		name          string
		url           string
		wantProductID string
		wantErr       bool
	}{
		{
			name:          "标准商品页URL",
			url:           "https://www.aliexpress.com/item/1005004632823451.html",
			wantProductID: "1005004632823451",
		},
		{
			name:          "带查询参数的URL",
			url:           "https://www.aliexpress.us/item/3256804567890123.html?spm=a2g0o.detail",
			wantProductID: "3256804567890123",
		},
		{
			name:    "无商品路径的URL",
			url:     "https://www.aliexpress.com/store/912345678",
			wantErr: true,
		},
		{
			name:    "空URL",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := extractor.ExtractFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望提取失败，实际成功")
				}
				if !errors.Is(err, ErrExtractionFailed) {
					t.Errorf("错误类别 = %v, 期望 ErrExtractionFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("提取失败: %v", err)
			}
			if identity.ProductID != tt.wantProductID {
				t.Errorf("ProductID = %s, 期望 %s", identity.ProductID, tt.wantProductID)
			}
			if identity.Source != SourceURL {
				t.Errorf("Source = %s, 期望 %s", identity.Source, SourceURL)
			}
		})
	}
}

func TestExtractorService_Extract_RuntimeStateStrategies(t *testing.T) {
	extractor := NewExtractorService()

	tests := []struct {
		name          string
		state         string
		wantProductID string
		wantSellerID  string
		wantSource    string
	}{
		{
			name:          "评论模块优先",
			state:         `{"data":{"feedbackModule":{"productId":1005004632823451,"sellerAdminSeq":231234567},"productId":999}}`,
			wantProductID: "1005004632823451",
			wantSellerID:  "231234567",
			wantSource:    SourceRuntimeFeedback,
		},
		{
			name:          "根节点兜底",
			state:         `{"data":{"productId":"3256804567890123","adminSeq":"8812345"}}`,
			wantProductID: "3256804567890123",
			wantSellerID:  "8812345",
			wantSource:    SourceRuntimeRoot,
		},
		{
			name:          "店铺模块兜底",
			state:         `{"data":{"storeModule":{"productId":1005001111111111,"sellerAdminSeq":55667788}}}`,
			wantProductID: "1005001111111111",
			wantSellerID:  "55667788",
			wantSource:    SourceRuntimeStore,
		},
		{
			name:          "卖家ID缺失不算失败",
			state:         `{"data":{"feedbackModule":{"productId":1005004632823451}}}`,
			wantProductID: "1005004632823451",
			wantSellerID:  "",
			wantSource:    SourceRuntimeFeedback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := extractor.Extract(&PageContext{
				RuntimeState: json.RawMessage(tt.state),
			})
			if err != nil {
				t.Fatalf("提取失败: %v", err)
			}
			if identity.ProductID != tt.wantProductID {
				t.Errorf("ProductID = %s, 期望 %s", identity.ProductID, tt.wantProductID)
			}
			if identity.SellerID != tt.wantSellerID {
				t.Errorf("SellerID = %s, 期望 %s", identity.SellerID, tt.wantSellerID)
			}
			if identity.Source != tt.wantSource {
				t.Errorf("Source = %s, 期望 %s", identity.Source, tt.wantSource)
			}
		})
	}
}

func TestExtractorService_Extract_StateFallsBackToURL(t *testing.T) {
	extractor := NewExtractorService()

	// 运行时状态解不出 productId 时退回 URL 路径
	identity, err := extractor.Extract(&PageContext{
		URL:          "https://www.aliexpress.com/item/1005004632823451.html",
		RuntimeState: json.RawMessage(`{"data":{"somethingElse":true}}`),
	})
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if identity.ProductID != "1005004632823451" {
		t.Errorf("ProductID = %s, 期望 1005004632823451", identity.ProductID)
	}
	if identity.Source != SourceURL {
		t.Errorf("Source = %s, 期望 %s", identity.Source, SourceURL)
	}
}

func TestExtractorService_Extract_SellerFromHTML(t *testing.T) {
	extractor := NewExtractorService()

	// 状态里没有卖家 ID 时从页面 HTML 兜底找 adminAccountId
	identity, err := extractor.Extract(&PageContext{
		URL:  "https://www.aliexpress.com/item/1005004632823451.html",
		HTML: `<a href="https://www.aliexpress.com/store/feedback?adminAccountId=231234567">feedback</a>`,
	})
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if identity.SellerID != "231234567" {
		t.Errorf("SellerID = %s, 期望 231234567", identity.SellerID)
	}
}

func TestIDString_LongIDPrecision(t *testing.T) {
	// 长数字 ID 不能因 float64 解码丢精度
	raw := json.RawMessage(`{"data":{"feedbackModule":{"productId":1005004632823451999}}}`)
	extractor := NewExtractorService()

	identity, err := extractor.Extract(&PageContext{RuntimeState: raw})
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if identity.ProductID != "1005004632823451999" {
		t.Errorf("长 ID 丢失精度: %s", identity.ProductID)
	}
}
