// Package render draws profiles and standings pages for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"viewer/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorGray  = lipgloss.Color("#808080")
	ColorBlue  = lipgloss.Color("#5FAFFF")
	ColorGreen = lipgloss.Color("#49E209")
	ColorRed   = lipgloss.Color("#FF5F5F")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(ColorGray).Width(9).Align(lipgloss.Left)
	valueStyle = lipgloss.NewStyle().Foreground(ColorBlue)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle = lipgloss.NewStyle().Foreground(ColorRed)
)

// Profile renders a user as a bordered card. position is shown when the
// caller knows where the record sits in the session history.
func Profile(u domain.UserRecord, position string) string {
	rows := []string{titleStyle.Render(strings.TrimSpace(u.FirstName + " " + u.LastName))}
	for _, kv := range [][2]string{
		{"Email", u.Email},
		{"Location", location(u)},
		{"Picture", u.PictureURL},
	} {
		if kv[1] == "" {
			continue
		}
		rows = append(rows, keyStyle.Render(kv[0])+valueStyle.Render(kv[1]))
	}
	if position != "" {
		rows = append(rows, mutedStyle.Render(position))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func location(u domain.UserRecord) string {
	switch {
	case u.City != "" && u.Country != "":
		return u.City + ", " + u.Country
	case u.City != "":
		return u.City
	default:
		return u.Country
	}
}

// Standings renders one page as a table with a year/page header and a
// navigation footer.
func Standings(p domain.Page) string {
	header := titleStyle.Render(fmt.Sprintf("Standings %d", p.Year)) +
		mutedStyle.Render(fmt.Sprintf("  page %d", p.Page))

	if p.Empty {
		return lipgloss.JoinVertical(lipgloss.Left, header, mutedStyle.Render("No results found."), footer(p))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("TEAM", "W", "L").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Foreground(ColorWhite).Bold(true)
			}
			if col > 0 {
				return style.Align(lipgloss.Right)
			}
			return style
		})
	for _, team := range p.Teams {
		t.Row(team.Team, strconv.Itoa(team.Win), strconv.Itoa(team.Loss))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, t.Render(), footer(p))
}

func footer(p domain.Page) string {
	var parts []string
	if p.HasPrev {
		parts = append(parts, "< prev")
	}
	parts = append(parts, fmt.Sprintf("%d teams", p.Total))
	if p.HasNext {
		parts = append(parts, "next >")
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}

// Error renders a failure line with no viewer-specific framing.
func Error(err error) string {
	return errorStyle.Render(err.Error())
}

// ProfileErrorMessage frames a profile fetch failure with the retry hint.
// Validation and non-fetch errors are shown as is.
func ProfileErrorMessage(err error) string {
	if kind, ok := domain.KindOf(err); ok && kind != domain.ValidationError {
		return fmt.Sprintf("Error loading user information: %s. Please try again later.", err.Error())
	}
	return err.Error()
}

// StandingsErrorMessage frames a standings load failure.
func StandingsErrorMessage(err error) string {
	if _, ok := domain.KindOf(err); ok {
		return fmt.Sprintf("Error loading standings: %s.", err.Error())
	}
	return err.Error()
}
