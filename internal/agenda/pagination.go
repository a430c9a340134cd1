package agenda

// StaffPage is the window of working veterinarians currently visible in the
// grid, with the navigation flags the UI needs.
type StaffPage struct {
	Grids      []DayGrid `json:"veterinarios"`
	Offset     int       `json:"offset"`
	WindowSize int       `json:"window_size"`
	Total      int       `json:"total"`
	NavVisible bool      `json:"nav_visible"`
	Empty      bool      `json:"sin_personal"`
}

// Paginate applies the fixed pagination window to the working-staff grids.
// The offset is clamped so it never exceeds max(0, total-windowSize);
// navigation is hidden entirely when everything fits in one window, and the
// empty state is flagged when nobody works that day.
func Paginate(grids []DayGrid, offset, windowSize int) StaffPage {
	total := len(grids)
	if windowSize <= 0 {
		windowSize = 2
	}

	page := StaffPage{
		WindowSize: windowSize,
		Total:      total,
		NavVisible: total > windowSize,
		Empty:      total == 0,
	}
	if total == 0 {
		return page
	}

	maxOffset := total - windowSize
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}

	end := offset + windowSize
	if end > total {
		end = total
	}

	page.Offset = offset
	page.Grids = grids[offset:end]
	return page
}
