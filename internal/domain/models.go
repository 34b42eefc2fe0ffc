package domain

import (
	"sort"
)

type UserRecord struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	PictureURL string `json:"picture_url"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// WithName returns a copy of the record carrying the given first/last name.
func (u UserRecord) WithName(first, last string) UserRecord {
	u.FirstName = first
	u.LastName = last
	return u
}

type TeamRecord struct {
	Team string `json:"team"`
	Win  int    `json:"win"`
	Loss int    `json:"loss"`
}

// StandingsIndex maps a season year to its team rows in source order.
type StandingsIndex map[int][]TeamRecord

// Years returns the years present in the index, ascending.
func (idx StandingsIndex) Years() []int {
	years := make([]int, 0, len(idx))
	for y := range idx {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (idx StandingsIndex) EarliestYear() (int, bool) {
	years := idx.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[0], true
}

func (idx StandingsIndex) LatestYear() (int, bool) {
	years := idx.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}

// NextYear returns the smallest year in the index greater than year.
func (idx StandingsIndex) NextYear(year int) (int, bool) {
	for _, y := range idx.Years() {
		if y > year {
			return y, true
		}
	}
	return 0, false
}

// PrevYear returns the largest year in the index smaller than year.
func (idx StandingsIndex) PrevYear(year int) (int, bool) {
	years := idx.Years()
	for i := len(years) - 1; i >= 0; i-- {
		if years[i] < year {
			return years[i], true
		}
	}
	return 0, false
}

type PageState struct {
	CurrentPage  int `json:"current_page"`
	SelectedYear int `json:"selected_year"`
	PageSize     int `json:"page_size"`
}

// Page is one rendered slice of standings. Empty is set when the filtered
// result has no rows on this page.
type Page struct {
	Year     int          `json:"year"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Teams    []TeamRecord `json:"teams"`
	Total    int          `json:"total"`
	HasPrev  bool         `json:"has_prev"`
	HasNext  bool         `json:"has_next"`
	Empty    bool         `json:"empty"`
}
