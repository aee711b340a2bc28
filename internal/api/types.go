package api

import (
	"net/url"
	"strconv"
	"time"
)

// User is a platform account.
type User struct {
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"profileDetail,omitempty"`
	Gender    int       `json:"gender,omitempty"`
	Level     int       `json:"level,omitempty"`
	EXP       float64   `json:"exp,omitempty"`
	IsAuthor  bool      `json:"isAuthor"`
	CreatedAt time.Time `json:"createTime,omitempty"`
}

// ProfileUpdate holds the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Username  *string
	Bio       *string
	AvatarURL *string
	Gender    *int
}

// Novel is a published work.
type Novel struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Title        string    `json:"title"`
	Synopsis     string    `json:"synopsis"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorUsername"`
	CategoryID   int       `json:"categoryId"`
	Status       string    `json:"status"`
	CoverImgURL  string    `json:"coverImgUrl,omitempty"`
	IsCompleted  bool      `json:"isCompleted"`
	ChapterCount int       `json:"chapterCnt"`
	WordCount    int64     `json:"wordCnt"`
	ViewCount    int64     `json:"viewCnt"`
	AvgRating    float64   `json:"avgRating"`
	ReviewCount  int       `json:"reviewCnt"`
	CreatedAt    time.Time `json:"createTime"`
	UpdatedAt    time.Time `json:"updateTime"`
}

// NovelInput creates a novel.
type NovelInput struct {
	Title       string `json:"title"`
	Synopsis    string `json:"synopsis"`
	CategoryID  int    `json:"categoryId"`
	CoverImgURL string `json:"coverImgUrl,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

// NovelUpdate holds the fields to change; nil fields are left alone.
type NovelUpdate struct {
	Title       *string
	Synopsis    *string
	CategoryID  *int
	CoverImgURL *string
	IsCompleted *bool
}

// Chapter is one chapter of a novel.
type Chapter struct {
	UUID          string    `json:"uuid"`
	NovelID       int64     `json:"novelId"`
	ChapterNumber int       `json:"chapterNumber"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	WordCount     int       `json:"wordCnt"`
	IsPremium     bool      `json:"isPremium"`
	YuanCost      float64   `json:"yuanCost"`
	ViewCount     int64     `json:"viewCnt"`
	PublishedAt   time.Time `json:"publishTime"`
}

// ChapterInput creates a chapter.
type ChapterInput struct {
	NovelID       int64   `json:"novelId"`
	ChapterNumber int     `json:"chapterNumber"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	IsPremium     bool    `json:"isPremium"`
	YuanCost      float64 `json:"yuanCost,omitempty"`
}

// ChapterUpdate holds the fields to change; nil fields are left alone.
type ChapterUpdate struct {
	Title     *string
	Content   *string
	IsPremium *bool
	YuanCost  *float64
}

// Review is a reader's rating of a novel.
type Review struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	NovelID   int64     `json:"novelId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Spoiler   bool      `json:"isSpoiler"`
	LikeCount int       `json:"likeCnt"`
	CreatedAt time.Time `json:"createTime"`
}

// ReviewInput creates a review.
type ReviewInput struct {
	NovelID int64  `json:"novelId"`
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Spoiler bool   `json:"isSpoiler"`
}

// ListOptions pages and filters list endpoints. Zero values are omitted.
type ListOptions struct {
	Page     int
	Size     int
	Category int
	Sort     string
	Order    string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		q.Set("size", strconv.Itoa(o.Size))
	}
	if o.Category > 0 {
		q.Set("category", strconv.Itoa(o.Category))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	return q
}
