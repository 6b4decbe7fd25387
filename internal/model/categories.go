package model

import "strings"

// AllCategories is the filter selector that disables category filtering.
const AllCategories = "all"

type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultCategoryColor is used for rows whose category is not in the registry.
const DefaultCategoryColor = "#78716c"

var categories = []Category{
	{Name: "technology", Color: "#3b82f6"},
	{Name: "science", Color: "#16a34a"},
	{Name: "finance", Color: "#ef4444"},
	{Name: "society", Color: "#eab308"},
	{Name: "entertainment", Color: "#db2777"},
	{Name: "health", Color: "#14b8a6"},
	{Name: "history", Color: "#f97316"},
	{Name: "news", Color: "#8b5cf6"},
}

// Categories returns a copy of the registry in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func FindCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func IsCategory(name string) bool {
	_, ok := FindCategory(name)
	return ok
}

// IsCategorySelector reports whether s may be used as the current filter.
func IsCategorySelector(s string) bool {
	return s == AllCategories || IsCategory(s)
}

// CategoryColor looks a category up case-insensitively; stored rows are not
// guaranteed to follow the lower-case convention.
func CategoryColor(name string) string {
	if c, ok := FindCategory(strings.ToLower(strings.TrimSpace(name))); ok {
		return c.Color
	}
	return DefaultCategoryColor
}

// CategorySelectors returns "all" followed by every registered name.
func CategorySelectors() []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, AllCategories)
	for _, c := range categories {
		out = append(out, c.Name)
	}
	return out
}
