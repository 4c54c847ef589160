package report

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableStats summarises HTML tables embedded anywhere in a decoded response.
type TableStats struct {
	Tables int
	Rows   int
}

// CountTables walks a decoded JSON value and counts <table> elements in its string leaves.
// The response shape is not assumed; strings without "<table" are skipped.
func CountTables(v any) TableStats {
	var stats TableStats
	walk(v, func(s string) {
		if !strings.Contains(strings.ToLower(s), "<table") {
			return
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err != nil {
			return
		}
		doc.Find("table").Each(func(_ int, t *goquery.Selection) {
			stats.Tables++
			stats.Rows += t.Find("tr").Length()
		})
	})
	return stats
}

func walk(v any, fn func(string)) {
	switch x := v.(type) {
	case string:
		fn(x)
	case map[string]any:
		for _, child := range x {
			walk(child, fn)
		}
	case []any:
		for _, child := range x {
			walk(child, fn)
		}
	}
}
