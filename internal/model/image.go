package model

import "strings"

// DefaultPageSize is the number of results requested per page
const DefaultPageSize = 20

// SearchQuery identifies one page of a keyword search
type SearchQuery struct {
	Keyword  string
	Page     int // 1-based
	PageSize int
}

// NewSearchQuery returns the first page for keyword.
func NewSearchQuery(keyword string, pageSize int) SearchQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return SearchQuery{
		Keyword:  strings.TrimSpace(keyword),
		Page:     1,
		PageSize: pageSize,
	}
}

// Next returns the query for the following page
func (q SearchQuery) Next() SearchQuery {
	q.Page++
	return q
}

// ImageItem is a single discovered image, identified by its URL
type ImageItem struct {
	URL string
}

// URLs returns the URLs of items, preserving order
func URLs(items []ImageItem) []string {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	return urls
}
