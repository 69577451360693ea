package listview

// TotalPages is ceil(n/size), never less than one.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp keeps page within [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Bounds returns the half-open slice bounds of page over n items.
func Bounds(page, size, n int) (int, int) {
	if size <= 0 {
		return 0, n
	}
	start := (page - 1) * size
	if start > n {
		start = n
	}
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}
