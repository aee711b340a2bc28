package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

const synopsisWidth = 48

// render prints v as JSON, or calls table for the table format.
func (a *app) render(v any, tableFn func(t table.Writer)) error {
	if a.format == formatJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	tableFn(t)
	t.Render()
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func userTable(u *api.User) func(table.Writer) {
	return func(t table.Writer) {
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Colors: text.Colors{text.Bold}}})
		t.AppendRows([]table.Row{
			{"Username", u.Username},
			{"Email", u.Email},
			{"UUID", u.UUID},
			{"Author", yesNo(u.IsAuthor)},
			{"Level", u.Level},
			{"Joined", formatTime(u.CreatedAt)},
		})
		if u.Bio != "" {
			t.AppendRow(table.Row{"Bio", u.Bio})
		}
	}
}

func novelPageTable(p *api.Page[api.Novel]) func(table.Writer) {
	return func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "Title", "Author", "Chapters", "Rating", "Views"})
		for _, n := range p.Content {
			t.AppendRow(table.Row{n.ID, n.Title, n.AuthorName, n.ChapterCount, formatRating(n.AvgRating, n.ReviewCount), n.ViewCount})
		}
		t.AppendFooter(table.Row{"", pageSummary(p.Page, p.TotalPages, p.TotalElements), "", "", "", ""})
	}
}

func novelTable(n *api.Novel) func(table.Writer) {
	return func(t table.Writer) {
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 72}})
		t.AppendRows([]table.Row{
			{"ID", n.ID},
			{"Title", n.Title},
			{"Author", n.AuthorName},
			{"Status", n.Status},
			{"Completed", yesNo(n.IsCompleted)},
			{"Chapters", n.ChapterCount},
			{"Words", n.WordCount},
			{"Rating", formatRating(n.AvgRating, n.ReviewCount)},
			{"Views", n.ViewCount},
			{"Synopsis", n.Synopsis},
		})
	}
}

func chapterPageTable(p *api.Page[api.Chapter]) func(table.Writer) {
	return func(t table.Writer) {
		t.AppendHeader(table.Row{"#", "Title", "Words", "Premium", "UUID"})
		for _, c := range p.Content {
			t.AppendRow(table.Row{c.ChapterNumber, c.Title, c.WordCount, yesNo(c.IsPremium), c.UUID})
		}
		t.AppendFooter(table.Row{"", pageSummary(p.Page, p.TotalPages, p.TotalElements), "", "", ""})
	}
}

func reviewPageTable(p *api.Page[api.Review]) func(table.Writer) {
	return func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "User", "Rating", "Title", "Likes"})
		for _, r := range p.Content {
			title := r.Title
			if r.Spoiler {
				title += " (spoiler)"
			}
			t.AppendRow(table.Row{r.ID, r.Username, strings.Repeat("*", r.Rating), title, r.LikeCount})
		}
		t.AppendFooter(table.Row{"", pageSummary(p.Page, p.TotalPages, p.TotalElements), "", "", ""})
	}
}

func searchTable(p *api.Page[api.Novel]) func(table.Writer) {
	return func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "Title", "Synopsis"})
		for _, n := range p.Content {
			t.AppendRow(table.Row{n.ID, n.Title, truncate(n.Synopsis, synopsisWidth)})
		}
		t.AppendFooter(table.Row{"", pageSummary(p.Page, p.TotalPages, p.TotalElements), ""})
	}
}

func pageSummary(page, totalPages int, total int64) string {
	if totalPages == 0 {
		return "no results"
	}
	return fmt.Sprintf("page %d/%d, %d total", page+1, totalPages, total)
}

func formatRating(avg float64, count int) string {
	if count == 0 {
		return "-"
	}
	return strconv.FormatFloat(avg, 'f', 1, 64) + " (" + strconv.Itoa(count) + ")"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
