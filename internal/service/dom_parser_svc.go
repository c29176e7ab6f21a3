package service

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ==================== DOM 解析器 ====================

// 正文短于该长度的评论丢弃（多为 "good"、"ok" 之类无信息内容）
const minDomReviewLength = 5

// ParseDOM 渲染后 DOM 的兜底解析器
// 评论容器按 class 子串启发式定位（"list" + "itemWrap"），字段可能比 JSON 解析器少
// limit 限制处理的容器数量，<=0 表示不限制
func (s *ParserService) ParseDOM(html string, limit int) []ScrapedReview {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []ScrapedReview{}
	}

	reviews := make([]ScrapedReview, 0)
	doc.Find("[class*=list] [class*=itemWrap]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if limit > 0 && len(reviews) >= limit {
			return false
		}
		review, ok := s.parseDomContainer(i, sel)
		if ok {
			reviews = append(reviews, review)
		}
		return true
	})
	return reviews
}

// parseDomContainer 解析单个评论容器
func (s *ParserService) parseDomContainer(index int, sel *goquery.Selection) (ScrapedReview, bool) {
	review := ScrapedReview{
		ReviewerName: "Customer",
		Country:      "Unknown",
		Rating:       5,
		Platform:     PlatformNameAliExpress,
	}

	// 评论人信息："name | date" 竖线分隔
	info := strings.TrimSpace(sel.Find("[class*=user], [class*=info]").First().Text())
	if info != "" {
		parts := strings.SplitN(info, "|", 2)
		if name := strings.TrimSpace(parts[0]); name != "" {
			review.ReviewerName = name
		}
		if len(parts) > 1 {
			review.Date = strings.TrimSpace(parts[1])
		}
	}

	// 正文：优先带 content/text 类名的节点，找不到退回容器全文
	body := strings.TrimSpace(sel.Find("[class*=content], [class*=text]").First().Text())
	if body == "" {
		body = strings.TrimSpace(sel.Text())
	}
	if len(body) < minDomReviewLength {
		return review, false
	}
	review.Text = body

	// 星级：数实心星子元素个数
	if filled := sel.Find("[class*=filled]").Length(); filled >= 1 && filled <= 5 {
		review.Rating = filled
	}

	// 图片：按类名剔除头像
	images := make([]string, 0)
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		class, _ := img.Attr("class")
		if strings.Contains(strings.ToLower(class), "avatar") {
			return
		}
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			images = append(images, src)
		}
	})
	review.Images = images

	// DOM 里拿不到上游评论 ID，用正文哈希位做稳定标识
	review.ID = domReviewID(review.ReviewerName, review.Text, index)
	return review, true
}

// domReviewID 为 DOM 来源的评论生成确定性标识
// 同一页面同一容器两次解析得到相同 ID，保证去重可用
func domReviewID(name, text string, index int) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return fmt.Sprintf("dom-%d-%x", index, h.Sum64())
}
