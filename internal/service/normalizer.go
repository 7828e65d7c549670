// Package service 包含了应用的业务逻辑层。
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
)

// ErrMalformedOutput 表示模型输出无法解析为 JSON。
// 永远向上抛出，不允许静默退化为空结果。
var ErrMalformedOutput = errors.New("malformed generation output")

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// ExtractJSON 去掉模型输出两端的 Markdown 代码围栏（可带语言标签）。
// 这是归一化之前唯一的文本清理。
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = leadingFence.ReplaceAllString(text, "")
		text = trailingFence.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// NormalizePosts 把模型的原始文本输出转换为有序的帖子序列。
// 数组先按 limit 截断再映射；编号从 1 开始，保持生成顺序。
func NormalizePosts(raw string, limit int) ([]model.PostResponse, error) {
	cleaned := ExtractJSON(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	items, ok := parsed.([]interface{})
	if !ok {
		// 容错：模型漏掉外层数组、只返回单个对象
		items = []interface{}{parsed}
	}

	if len(items) > limit {
		items = items[:limit]
	}

	posts := make([]model.PostResponse, 0, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]interface{})
		posts = append(posts, normalizePost(obj, i+1))
	}
	return posts, nil
}

// normalizePost 把单个模型输出对象映射为规范的帖子结构。
// 每个字段都经过显式的缺省取值，绝不因缺字段报错。
func normalizePost(raw map[string]interface{}, postNumber int) model.PostResponse {
	pv, _ := raw["platform_variations"].(map[string]interface{})
	return model.PostResponse{
		PostNumber: postNumber,
		PostTopic:  stringField(raw, "post_topic"),
		Caption:    stringField(raw, "caption"),
		PlatformVariations: model.PlatformVariations{
			Instagram: stringField(pv, "instagram"),
			Linkedin:  stringField(pv, "linkedin"),
			Facebook:  stringField(pv, "facebook"),
		},
		Hashtags:              normalizeHashtags(raw["hashtags"]),
		CTA:                   stringField(raw, "cta"),
		AIImagePrompt:         stringField(raw, "ai_image_prompt"),
		SuggestedCreativeType: ParseCreativeType(stringField(raw, "suggested_creative_type")),
		TextOverlaySuggestion: stringField(raw, "text_overlay_suggestion"),
		ColorThemeSuggestion:  stringField(raw, "color_theme_suggestion"),
	}
}

// stringField 从对象中取字符串字段；缺失或类型不符时返回 ""。
func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// normalizeHashtags 归一化话题标签：
// 列表原样保留（仅收字符串元素）；字符串先去掉 '#' 再按空白切分；其余情况为空列表。
func normalizeHashtags(v interface{}) []string {
	switch tags := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Fields(strings.ReplaceAll(tags, "#", ""))
	default:
		return []string{}
	}
}

// ParseCreativeType 对模型给出的创意形式做大小写无关的子串匹配。
// 有意放宽，容忍模型的自由文本；兜底为 Static Post。
func ParseCreativeType(value string) model.CreativeType {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(v, "carousel"):
		return model.CreativeCarousel
	case strings.Contains(v, "reel"):
		return model.CreativeReel
	default:
		return model.CreativeStaticPost
	}
}
