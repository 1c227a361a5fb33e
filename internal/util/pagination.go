package util

// Calculate clamps page/size query values into an offset and a limit.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}

// LimitOffset clamps raw limit/offset query values. The comment and photo
// listings cap the page size at 500.
func LimitOffset(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
