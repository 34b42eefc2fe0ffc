// Package standings implements filtering and year-spanning pagination over
// a loaded StandingsIndex. Every function here is pure: state goes in, a new
// state or page comes out.
package standings

import (
	"strings"
	"viewer/internal/constants"
	"viewer/internal/domain"
)

// InitialState opens on the first page of the latest year in the index.
func InitialState(index domain.StandingsIndex, pageSize int) domain.PageState {
	year, _ := index.LatestYear()
	return domain.PageState{
		CurrentPage:  1,
		SelectedYear: year,
		PageSize:     normalizePageSize(pageSize),
	}
}

// Filter keeps rows whose team name contains filter, ignoring case. An
// empty filter keeps everything. Relative order is preserved.
func Filter(rows []domain.TeamRecord, filter string) []domain.TeamRecord {
	needle := strings.ToLower(strings.TrimSpace(filter))
	out := make([]domain.TeamRecord, 0, len(rows))
	for _, r := range rows {
		if needle == "" || strings.Contains(strings.ToLower(r.Team), needle) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeVisiblePage projects index, filter and state onto one page.
func ComputeVisiblePage(index domain.StandingsIndex, filter string, state domain.PageState) domain.Page {
	state = normalize(state)
	filtered := Filter(index[state.SelectedYear], filter)

	total := len(filtered)
	start := rowsBefore(state.CurrentPage, state.PageSize, total)
	end := start + min(state.PageSize, total-start)

	teams := make([]domain.TeamRecord, end-start)
	copy(teams, filtered[start:end])

	_, hasEarlier := index.PrevYear(state.SelectedYear)
	_, hasLater := index.NextYear(state.SelectedYear)

	return domain.Page{
		Year:     state.SelectedYear,
		Page:     state.CurrentPage,
		PageSize: state.PageSize,
		Teams:    teams,
		Total:    total,
		HasPrev:  !(state.CurrentPage == 1 && !hasEarlier),
		HasNext:  state.CurrentPage < LastPage(total, state.PageSize) || hasLater,
		Empty:    len(teams) == 0,
	}
}

// Advance moves one page forward, rolling over into the next later year.
// Page counts use the unfiltered row count of the selected year.
func Advance(index domain.StandingsIndex, state domain.PageState) domain.PageState {
	state = normalize(state)
	total := len(index[state.SelectedYear])
	if state.CurrentPage < LastPage(total, state.PageSize) {
		state.CurrentPage++
		return state
	}
	if next, ok := index.NextYear(state.SelectedYear); ok {
		state.SelectedYear = next
		state.CurrentPage = 1
	}
	return state
}

// Retreat moves one page back, rolling over onto the last page of the
// previous year sized by that year's unfiltered row count.
func Retreat(index domain.StandingsIndex, state domain.PageState) domain.PageState {
	state = normalize(state)
	if state.CurrentPage > 1 {
		state.CurrentPage--
		return state
	}
	if prev, ok := index.PrevYear(state.SelectedYear); ok {
		state.SelectedYear = prev
		state.CurrentPage = LastPage(len(index[prev]), state.PageSize)
	}
	return state
}

// LastPage is the 1-based index of the final page holding total rows.
func LastPage(total, pageSize int) int {
	pageSize = normalizePageSize(pageSize)
	if total <= 0 {
		return 1
	}
	return (total-1)/pageSize + 1
}

// rowsBefore is min((page-1)*pageSize, total) without overflowing for
// very large page numbers.
func rowsBefore(page, pageSize, total int) int {
	if page-1 > total/pageSize {
		return total
	}
	return min((page-1)*pageSize, total)
}

func normalize(state domain.PageState) domain.PageState {
	state.PageSize = normalizePageSize(state.PageSize)
	if state.CurrentPage < 1 {
		state.CurrentPage = 1
	}
	return state
}

func normalizePageSize(size int) int {
	if size < 1 {
		return constants.DefaultStandingsPageSize
	}
	return size
}
