package util

import "strconv"

const DefaultPageSize = 10

// ParsePage accepts an empty value (page 1) or a positive decimal integer.
func ParsePage(s string) (int, bool) {
	if s == "" {
		return 1, true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

func TotalPages(total int64, size int) int64 {
	if size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
