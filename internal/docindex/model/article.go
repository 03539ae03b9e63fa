package model

import "time"

// Article is stored in the "articles" index with type "article".
type Article struct {
	ID        string    `bson:"_id" json:"id" es:"id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Author    string    `bson:"author" json:"author"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Version   int64     `bson:"version" json:"version" es:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (Article) IndexName() string { return IndexArticles }
func (Article) IndexType() string { return TypeArticle }

// Comment is a child document of an Article, sharing its index.
type Comment struct {
	ID        string    `bson:"_id" json:"id" es:"id"`
	ArticleID string    `bson:"article_id" json:"article_id" es:"parent"`
	Author    string    `bson:"author" json:"author"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (Comment) IndexName() string { return IndexArticles }
func (Comment) IndexType() string { return TypeComment }
