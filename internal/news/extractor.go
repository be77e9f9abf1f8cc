package news

import (
	"strings"
	"unicode/utf8"

	"github.com/brahimakil/rasedweb/internal/model"
)

const (
	summaryMaxChars = 300
	placeholderImg  = "https://via.placeholder.com/300x180?text=No+Image"
)

// ContentExtractor derives a display summary and image from an article's
// source-shaped payload. One extractor exists per known source shape;
// unknown sources fall back to defaultExtractor.
type ContentExtractor interface {
	Summary(a model.Article) string
	ImageURL(a model.Article) string
}

var extractors = map[string]ContentExtractor{
	"almayadeen.net": almayadeenExtractor{},
}

// ExtractorFor selects the extractor for a source identifier. The source
// string may carry a path suffix ("almayadeen.net/politics"); matching is
// on the registered host key.
func ExtractorFor(source string) ContentExtractor {
	for key, ex := range extractors {
		if strings.Contains(source, key) {
			return ex
		}
	}
	return defaultExtractor{}
}

// Summary resolves an article's summary, preferring the precomputed
// processedContent over anything derived from fullContent.
func Summary(a model.Article) string {
	if a.ProcessedContent != "" {
		return Truncate(a.ProcessedContent, summaryMaxChars)
	}
	return ExtractorFor(a.Source).Summary(a)
}

// ImageURL resolves an article's image, preferring processedImageUrl.
func ImageURL(a model.Article) string {
	if a.ProcessedImageURL != "" {
		return a.ProcessedImageURL
	}
	if img := ExtractorFor(a.Source).ImageURL(a); img != "" {
		return img
	}
	return placeholderImg
}

// ArticleURL resolves the best outbound link for an article.
func ArticleURL(a model.Article) string {
	if a.URL != "" {
		return a.URL
	}
	if a.Link != "" {
		return a.Link
	}
	if fc := a.FullContent; fc != nil {
		if fc.URL != "" {
			return fc.URL
		}
		if fc.Link != "" {
			return fc.Link
		}
		if fc.FullArticleLink != "" {
			return fc.FullArticleLink
		}
	}
	return ""
}

type defaultExtractor struct{}

func (defaultExtractor) Summary(a model.Article) string {
	if a.FullContent != nil && a.FullContent.PlainTextContent != "" {
		return Truncate(a.FullContent.PlainTextContent, summaryMaxChars)
	}
	return ""
}

func (defaultExtractor) ImageURL(a model.Article) string {
	if a.FullContent != nil && a.FullContent.MainImage != "" {
		return a.FullContent.MainImage
	}
	return a.ImageURL
}

// almayadeenExtractor handles the nested fullArticle shape that site's
// scraper produces: body paragraphs under fullArticle.content and the
// image under fullArticle.mainImage.url.
type almayadeenExtractor struct{}

func (almayadeenExtractor) Summary(a model.Article) string {
	if fa := fullArticle(a); fa != nil && len(fa.Content) > 0 {
		var parts []string
		for _, block := range fa.Content {
			if block.Type == "paragraph" {
				parts = append(parts, block.Content)
			}
		}
		if len(parts) > 0 {
			return Truncate(strings.Join(parts, " "), summaryMaxChars)
		}
	}
	if a.FullContent != nil && a.FullContent.PlainTextContent != "" {
		return Truncate(a.FullContent.PlainTextContent, summaryMaxChars)
	}
	return ""
}

func (almayadeenExtractor) ImageURL(a model.Article) string {
	if fa := fullArticle(a); fa != nil && fa.MainImage != nil && fa.MainImage.URL != "" {
		return fa.MainImage.URL
	}
	return defaultExtractor{}.ImageURL(a)
}

func fullArticle(a model.Article) *model.FullArticle {
	if a.FullContent == nil {
		return nil
	}
	return a.FullContent.FullArticle
}

// Truncate caps s at max bytes without splitting a rune. Most article
// content is Arabic, so a plain byte slice would cut through a
// multi-byte character and leave the string invalid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
