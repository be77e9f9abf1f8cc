package news

import "github.com/brahimakil/rasedweb/internal/model"

// Dedupe drops every article whose id has already been seen, preserving
// first-seen order. Articles with an empty id are always dropped. When
// two articles share an id with different content, the first occurrence
// wins; later ones are discarded without any field merge.
func Dedupe(articles []model.Article) []model.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}
