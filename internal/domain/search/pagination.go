package search

// MaxVisiblePages 分页条最多显示的页码数
const MaxVisiblePages = 5

// PageWindow 计算分页条上显示的页码
// 以当前页为中心向前取2页,靠近末尾时整体左移,保证尽量显示满5个
// 例如: current=1,total=10 → [1 2 3 4 5]; current=9,total=10 → [6 7 8 9 10]
func PageWindow(current, total int) []int {
	if total < 1 {
		total = 1
	}
	start := max(1, current-2)
	end := min(total, start+MaxVisiblePages-1)
	if end-start < MaxVisiblePages-1 {
		start = max(1, end-MaxVisiblePages+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
