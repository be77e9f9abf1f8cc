package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/brahimakil/rasedweb/internal/model"
)

// SavedRepository manages the legacy saved_news collection. It coexists
// with the isFavorited flag on news_articles as a separate capability.
type SavedRepository struct {
	db *sql.DB
}

func NewSavedRepository(db *sql.DB) *SavedRepository {
	return &SavedRepository{db: db}
}

type SaveManyResult struct {
	NewlySaved   int `json:"newlySaved"`
	AlreadySaved int `json:"alreadySaved"`
	Total        int `json:"total"`
}

type UnsaveManyResult struct {
	Unsaved  int `json:"unsaved"`
	NotSaved int `json:"notSaved"`
	Total    int `json:"total"`
}

// SavedMap returns the owner's saved articles keyed by article id for
// O(1) membership checks.
func (r *SavedRepository) SavedMap(ownerID string) (map[string]model.SavedArticle, error) {
	rows, err := r.db.Query(`
		SELECT doc_id, id, title, source, date, category, image_url, summary, link, saved_at, user_id
		FROM saved_news
		WHERE user_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("saved map: %w", err)
	}
	defer rows.Close()

	saved := make(map[string]model.SavedArticle)
	for rows.Next() {
		var s model.SavedArticle
		err := rows.Scan(&s.DocID, &s.ID, &s.Title, &s.Source, &s.Date, &s.Category,
			&s.ImageURL, &s.Summary, &s.Link, &s.SavedAt, &s.OwnerID)
		if err != nil {
			return nil, err
		}
		s.IsSaved = true
		if s.ID != "" {
			saved[s.ID] = s
		}
	}
	return saved, rows.Err()
}

// Save stores one article in the saved list. Returns the stored document;
// an already-saved article is returned as-is without a second document.
func (r *SavedRepository) Save(ownerID string, item model.SavedArticle) (*model.SavedArticle, error) {
	saved, err := r.SavedMap(ownerID)
	if err != nil {
		return nil, err
	}
	if existing, ok := saved[item.ID]; ok {
		return &existing, nil
	}

	item.DocID = uuid.NewString()
	item.OwnerID = ownerID
	item.IsSaved = true

	_, err = r.db.Exec(`
		INSERT INTO saved_news (doc_id, id, title, source, date, category, image_url, summary, link, saved_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.DocID, item.ID, item.Title, item.Source, item.Date, item.Category,
		item.ImageURL, item.Summary, item.Link, item.SavedAt, item.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	return &item, nil
}

// SaveMany stores the not-yet-saved subset in one transaction and reports
// how many were new versus already present.
func (r *SavedRepository) SaveMany(ownerID string, items []model.SavedArticle) (*SaveManyResult, error) {
	saved, err := r.SavedMap(ownerID)
	if err != nil {
		return nil, err
	}

	var fresh []model.SavedArticle
	for _, item := range items {
		if _, ok := saved[item.ID]; ok {
			continue
		}
		fresh = append(fresh, item)
	}

	result := &SaveManyResult{
		NewlySaved:   len(fresh),
		AlreadySaved: len(items) - len(fresh),
		Total:        len(items),
	}
	if len(fresh) == 0 {
		return result, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("save many: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO saved_news (doc_id, id, title, source, date, category, image_url, summary, link, saved_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return nil, fmt.Errorf("save many: %w", err)
	}
	defer stmt.Close()

	for _, item := range fresh {
		_, err = stmt.Exec(uuid.NewString(), item.ID, item.Title, item.Source, item.Date,
			item.Category, item.ImageURL, item.Summary, item.Link, item.SavedAt, ownerID)
		if err != nil {
			return nil, fmt.Errorf("save many %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// Unsave removes one article from the saved list. Returns false when the
// article was not saved.
func (r *SavedRepository) Unsave(ownerID, articleID string) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM saved_news WHERE user_id = $1 AND id = $2
	`, ownerID, articleID)
	if err != nil {
		return false, fmt.Errorf("unsave: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UnsaveMany removes the saved subset of the given ids.
func (r *SavedRepository) UnsaveMany(ownerID string, articleIDs []string) (*UnsaveManyResult, error) {
	saved, err := r.SavedMap(ownerID)
	if err != nil {
		return nil, err
	}

	result := &UnsaveManyResult{Total: len(articleIDs)}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("unsave many: %w", err)
	}
	defer tx.Rollback()

	for _, id := range articleIDs {
		if _, ok := saved[id]; !ok {
			result.NotSaved++
			continue
		}
		if _, err := tx.Exec(`DELETE FROM saved_news WHERE user_id = $1 AND id = $2`, ownerID, id); err != nil {
			return nil, fmt.Errorf("unsave many %s: %w", id, err)
		}
		result.Unsaved++
	}

	if result.Unsaved == 0 {
		return result, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
