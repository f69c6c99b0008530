package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// categorizeRequest accepts either a batch ({"bookmarks":[...]}) or a single
// bookmark ({"title","url","content"}).
type categorizeRequest struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
	Title     string            `json:"title"`
	URL       string            `json:"url"`
	Content   string            `json:"content"`
}

func (req categorizeRequest) single() bool { return req.Bookmarks == nil }

func (req categorizeRequest) Validate() error {
	if req.single() {
		return validation.ValidateStruct(&req,
			validation.Field(&req.Title, validation.Required.Error("title is required")),
			validation.Field(&req.URL, validation.Required.Error("url is required"), validation.By(webURL)),
		)
	}
	return validation.ValidateStruct(&req,
		validation.Field(&req.Bookmarks, validation.Each(validation.By(bookmarkRule))),
	)
}

type suggestionsRequest struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

func (req suggestionsRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Bookmarks, validation.NotNil.Error("bookmarks must be an array")),
	)
}

type archiveBatchRequest struct {
	BookmarkIDs []string `json:"bookmarkIds"`
}

func (req archiveBatchRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.BookmarkIDs,
			validation.NotNil.Error("bookmarkIds must be an array"),
			validation.Each(validation.Required)),
	)
}

type updateRequest struct {
	Title    *string   `json:"title"`
	URL      *string   `json:"url"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

func (req updateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.URL, validation.By(func(v interface{}) error {
			p, _ := v.(*string)
			if p == nil || *p == "" {
				return nil
			}
			return webURL(*p)
		})),
	)
}

func (req updateRequest) patch() domain.BookmarkPatch {
	return domain.BookmarkPatch{Title: req.Title, URL: req.URL, Category: req.Category, Tags: req.Tags}
}

type customCategoryRequest struct {
	Name string `json:"name"`
}

func (req customCategoryRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required.Error("name is required"), validation.RuneLength(1, 64)),
	)
}

func bookmarkRule(v interface{}) error {
	b, ok := v.(domain.Bookmark)
	if !ok {
		return errors.New("must be a bookmark")
	}
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(b.URL) == "" {
		return errors.New("url is required")
	}
	return webURL(b.URL)
}

func webURL(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return errors.New("must be a string")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid url %q", s)
	}
	return nil
}
