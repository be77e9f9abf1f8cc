package model

// ContentBlock is one element of a scraped article body. Known types are
// "paragraph" and "image"; anything else is passed through untouched.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type MainImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// FullArticle is the nested body some scrapers attach under fullContent.
type FullArticle struct {
	Content   []ContentBlock `json:"content,omitempty"`
	MainImage *MainImage     `json:"mainImage,omitempty"`
}

// FullContent carries the source-shaped payload as delivered by the
// scraper. Fields are optional and differ per originating site; nothing
// here is normalized.
type FullContent struct {
	Category         string       `json:"category,omitempty"`
	PlainTextContent string       `json:"plainTextContent,omitempty"`
	MainImage        string       `json:"mainImage,omitempty"`
	Link             string       `json:"link,omitempty"`
	URL              string       `json:"url,omitempty"`
	FullArticleLink  string       `json:"fullArticleLink,omitempty"`
	FullArticle      *FullArticle `json:"fullArticle,omitempty"`
}

// Article is the central entity. ID is the sole deduplication key and is
// unique across all sources. CreatedAt is stamped when the article is
// first persisted to the document store and is never backdated, so
// ordering by CreatedAt desc is discovery order, not publication order.
type Article struct {
	DocID             string       `json:"docId,omitempty"`
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Source            string       `json:"source"`
	Date              string       `json:"date"`
	Category          string       `json:"category,omitempty"`
	ImageURL          string       `json:"imageUrl,omitempty"`
	Link              string       `json:"link,omitempty"`
	URL               string       `json:"url,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	FullContent       *FullContent `json:"fullContent,omitempty"`
	ProcessedContent  string       `json:"processedContent,omitempty"`
	ProcessedImageURL string       `json:"processedImageUrl,omitempty"`
	IsFavorited       bool         `json:"isFavorited"`
	IsSaved           bool         `json:"isSaved,omitempty"`
	OwnerID           string       `json:"userId,omitempty"`
	FetchedAt         string       `json:"fetchedAt,omitempty"`
	CreatedAt         string       `json:"createdAt,omitempty"`
	UpdatedAt         string       `json:"updatedAt,omitempty"`
}

// SavedArticle is the legacy saved-list document. It predates the
// isFavorited flag on news_articles and is kept as a distinct capability.
type SavedArticle struct {
	DocID    string `json:"docId,omitempty"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Link     string `json:"link,omitempty"`
	IsSaved  bool   `json:"isSaved"`
	SavedAt  string `json:"savedAt"`
	OwnerID  string `json:"userId"`
}
