package model

// Indexes
const (
	IndexArticles = "articles"
)

// Document types
const (
	TypeArticle = "article"
	TypeComment = "comment"
)

// Request limits
const (
	MaxTitleLength = 200
	MaxTags        = 20
	MaxTagLength   = 50
)
