package model

import "strings"

type CreateArticleReq struct {
	Title string   `json:"title" validate:"required,min=1,max=200"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
}

func (r *CreateArticleReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.Tags = normalizeTags(r.Tags)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// UpdateArticleReq replaces title, body and tags of the article at Version.
type UpdateArticleReq struct {
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Body    string   `json:"body" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	Version int64    `json:"version" validate:"required,min=1"`
}

func (r *UpdateArticleReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.Tags = normalizeTags(r.Tags)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type CreateCommentReq struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (r *CreateCommentReq) Validate() error {
	r.Body = strings.TrimSpace(r.Body)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// normalizeTags trims, lower-cases and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
