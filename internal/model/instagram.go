package model

type InstagramPost struct {
	ID               string `json:"id"`
	Caption          string `json:"caption,omitempty"`
	ImageURL         string `json:"imageUrl"`
	OriginalImageURL string `json:"originalImageUrl,omitempty"`
	PostURL          string `json:"postUrl,omitempty"`
	Likes            int    `json:"likes,omitempty"`
	Comments         int    `json:"comments,omitempty"`
	Timestamp        string `json:"timestamp"`
}

// InstagramProfile is scraped profile data plus the posts visible at
// fetch time. Private accounts carry no posts.
type InstagramProfile struct {
	Username    string          `json:"username"`
	FullName    string          `json:"fullName,omitempty"`
	Biography   string          `json:"biography,omitempty"`
	Followers   int             `json:"followers,omitempty"`
	Following   int             `json:"following,omitempty"`
	PostCount   int             `json:"postCount,omitempty"`
	IsPrivate   bool            `json:"isPrivate"`
	Posts       []InstagramPost `json:"posts"`
	LastFetched string          `json:"lastFetched"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}
