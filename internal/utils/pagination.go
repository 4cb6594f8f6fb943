package utils

import "math"

type Page struct {
	Number int
	IsLink bool
}

// Pagination is the view model consumed by the _pagination.html partial.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []Page
}

// GeneratePagination 生成分页组件的数据：当前页前后各留一个窗口，
// 首尾页始终可见，中间用省略号（Number 为 0 的占位项）衔接。
func GeneratePagination(currentPage, totalPages int) *Pagination {
	if totalPages <= 1 {
		return nil
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	const window = 2

	var pages []Page
	pages = append(pages, Page{Number: 1, IsLink: true})

	if currentPage > window+2 {
		pages = append(pages, Page{Number: 0}) // 省略号
	}

	start := int(math.Max(2, float64(currentPage-window)))
	end := int(math.Min(float64(totalPages-1), float64(currentPage+window)))
	for i := start; i <= end; i++ {
		pages = append(pages, Page{Number: i, IsLink: true})
	}

	if currentPage < totalPages-(window+1) {
		pages = append(pages, Page{Number: 0})
	}
	pages = append(pages, Page{Number: totalPages, IsLink: true})

	final := make([]Page, 0, len(pages))
	seen := make(map[int]bool)
	for _, p := range pages {
		if p.Number == currentPage {
			p.IsLink = false
		}
		if p.Number == 0 {
			final = append(final, p)
			continue
		}
		if !seen[p.Number] {
			final = append(final, p)
			seen[p.Number] = true
		}
	}

	return &Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		Pages:       final,
	}
}
