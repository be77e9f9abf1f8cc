// Package repository holds the Postgres adapters for the remote document
// store collections. Timestamps are stored as RFC 3339 UTC strings so
// document payloads round-trip unchanged; for that format lexicographic
// and chronological order coincide.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/brahimakil/rasedweb/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `doc_id, id, title, source, date, category, image_url, link, url, summary,
	full_content, processed_content, processed_image_url, is_favorited, user_id, created_at, updated_at`

// ListByOwner returns the owner's articles newest-first by created_at,
// which is ingestion order, not publication order.
func (r *ArticleRepository) ListByOwner(ownerID string) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM news_articles
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ExistingIDs returns the set of article ids the owner already has. Used
// by the reconciler both for the new-article computation and for the
// pre-commit re-check.
func (r *ArticleRepository) ExistingIDs(ownerID string) (map[string]struct{}, error) {
	rows, err := r.db.Query(`
		SELECT id FROM news_articles WHERE user_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// SaveBatch persists one batch of articles as a single transaction. All
// rows in the batch share the same created_at/updated_at stamp. The
// unique (user_id, id) index makes a concurrent duplicate write a no-op
// rather than a second document.
func (r *ArticleRepository) SaveBatch(ownerID string, articles []model.Article, now string) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO news_articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id, id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		var fullContent []byte
		if a.FullContent != nil {
			fullContent, err = json.Marshal(a.FullContent)
			if err != nil {
				return fmt.Errorf("save batch encode %s: %w", a.ID, err)
			}
		}

		date := a.Date
		if date == "" {
			date = now
		}

		_, err = stmt.Exec(
			uuid.NewString(), a.ID, a.Title, a.Source, date, a.Category,
			a.ImageURL, a.Link, a.URL, a.Summary, fullContent,
			a.ProcessedContent, a.ProcessedImageURL, false, ownerID, now, now,
		)
		if err != nil {
			return fmt.Errorf("save batch %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// ToggleFavorite flips the favorite flag on the owner's article and bumps
// updated_at. Returns false when the article does not exist.
func (r *ArticleRepository) ToggleFavorite(ownerID, articleID string, favorited bool, now string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE news_articles
		SET is_favorited = $1, updated_at = $2
		WHERE user_id = $3 AND id = $4
	`, favorited, now, ownerID, articleID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Favorited returns the owner's favorited articles, most recently
// favorited first.
func (r *ArticleRepository) Favorited(ownerID string) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM news_articles
		WHERE user_id = $1 AND is_favorited = TRUE
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("favorited: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var fullContent []byte
		err := rows.Scan(
			&a.DocID, &a.ID, &a.Title, &a.Source, &a.Date, &a.Category,
			&a.ImageURL, &a.Link, &a.URL, &a.Summary, &fullContent,
			&a.ProcessedContent, &a.ProcessedImageURL, &a.IsFavorited,
			&a.OwnerID, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(fullContent) > 0 {
			var fc model.FullContent
			if err := json.Unmarshal(fullContent, &fc); err != nil {
				return nil, fmt.Errorf("decode full_content %s: %w", a.ID, err)
			}
			a.FullContent = &fc
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
