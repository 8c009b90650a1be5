package table

import "fmt"

// Summary describes the visible window in 1-based, inclusive terms.
type Summary struct {
	Start     int
	End       int
	Total     int
	PageIndex int
	PageCount int
}

// String renders the summary sentence shown under the table.
func (s Summary) String() string {
	return fmt.Sprintf("Показ %d–%d із %d продуктів", s.Start, s.End, s.Total)
}

// Summary derives the "showing start–end of total" figures. Zero results
// produce 0–0 of 0.
func (s *State) Summary() Summary {
	total := s.FilteredCount()
	sum := Summary{Total: total, PageIndex: s.pageIndex, PageCount: s.PageCount()}
	if total == 0 {
		return sum
	}
	first := s.pageIndex * s.pageSize
	sum.Start = first + 1
	sum.End = first + min(s.pageSize, total-first)
	return sum
}

// PageLinks returns up to window page indexes centred on the current page.
func (s *State) PageLinks(window int) []int {
	count := s.PageCount()
	if count == 0 || window < 1 {
		return []int{}
	}
	if window > count {
		window = count
	}
	first := s.pageIndex - window/2
	if first < 0 {
		first = 0
	}
	if first+window > count {
		first = count - window
	}
	links := make([]int, window)
	for i := range links {
		links[i] = first + i
	}
	return links
}
