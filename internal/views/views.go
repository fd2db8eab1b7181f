// Package views renders the Billed pages from the embedded html templates.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strconv"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/router"
)

//go:embed templates/*.html static
var files embed.FS

// StaticPrefix is where Assets is mounted; the page head links the stylesheet below it.
const StaticPrefix = "/static"

// Assets serves the embedded stylesheet.
func Assets() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var pages = template.Must(template.New("billed").Funcs(template.FuncMap{
	"num":       formatNumber,
	"statusOf":  bill.FormatStatus,
	"isActive":  func(active, icon router.Icon) bool { return active == icon },
	"iconBills": func() router.Icon { return router.IconBills },
	"iconNew":   func() router.Icon { return router.IconNewBill },
}).ParseFS(files, "templates/*.html"))

// Layout is the chrome shared by logged-in pages.
type Layout struct {
	Title  string
	Email  string
	Active router.Icon
}

// LayoutFor builds the chrome for route r.
func LayoutFor(r router.Route, email string) Layout {
	return Layout{Title: r.Title, Email: email, Active: r.Icon}
}

// BillRow is a bill ready for display. Bill.Date stays raw and drives ordering.
type BillRow struct {
	bill.Bill
	DisplayDate   string
	DisplayStatus string
}

func (r BillRow) DateText() string {
	if r.DisplayDate != "" {
		return r.DisplayDate
	}
	return r.Date
}

func (r BillRow) StatusText() string {
	if r.DisplayStatus != "" {
		return r.DisplayStatus
	}
	return bill.FormatStatus(r.Status)
}

type Modal struct {
	FileURL  string
	FileName string
	Width    int
}

type BillsPage struct {
	Layout
	Data    []BillRow
	Loading bool
	Error   string
	Modal   *Modal
}

// NewBillForm echoes submitted values back into the form.
type NewBillForm struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

type NewBillPage struct {
	Layout
	Types    []string
	Values   NewBillForm
	FileName string
	Errors   map[string]string
	Error    string
}

type LoginPage struct {
	Email string
	Error string
}

type DashboardSection struct {
	Index int
	Title string
	Bills []BillRow
}

type DashboardPage struct {
	Layout
	Sections []DashboardSection
	Selected *BillRow
	Error    string
}

// RouteData is what a page render needs besides the path.
type RouteData struct {
	Pathname string
	Layout   Layout
	Bills    []BillRow
	Loading  bool
	Error    string
}

// Routes renders the page registered for Pathname. Unknown paths render the login page.
func Routes(w io.Writer, d RouteData) error {
	switch d.Pathname {
	case router.PathBills:
		return BillsUI(w, BillsPage{Layout: d.Layout, Data: d.Bills, Loading: d.Loading, Error: d.Error})
	case router.PathNewBill:
		if d.Loading {
			return LoadingPage(w)
		}
		if d.Error != "" {
			return ErrorPage(w, d.Error)
		}
		return NewBillUI(w, NewBillPage{Layout: d.Layout})
	case router.PathDashboard:
		if d.Loading {
			return LoadingPage(w)
		}
		if d.Error != "" {
			return ErrorPage(w, d.Error)
		}
		return DashboardUI(w, DashboardPage{Layout: d.Layout, Sections: GroupByStatus(d.Bills)})
	default:
		return LoginUI(w, LoginPage{})
	}
}

func BillsUI(w io.Writer, p BillsPage) error {
	switch {
	case p.Loading:
		return LoadingPage(w)
	case p.Error != "":
		return ErrorPage(w, p.Error)
	}

	p.Data = SortRows(p.Data)
	return pages.ExecuteTemplate(w, "bills.html", p)
}

// Rows renders the table body for rows. Nothing is written when rows is empty.
func Rows(w io.Writer, rows []BillRow) error {
	return pages.ExecuteTemplate(w, "rows", SortRows(rows))
}

func NewBillUI(w io.Writer, p NewBillPage) error {
	if p.Types == nil {
		p.Types = bill.ExpenseTypes
	}
	if p.Values.Pct == "" {
		p.Values.Pct = strconv.Itoa(bill.DefaultPct)
	}
	return pages.ExecuteTemplate(w, "newbill.html", p)
}

func LoginUI(w io.Writer, p LoginPage) error {
	return pages.ExecuteTemplate(w, "login.html", p)
}

func DashboardUI(w io.Writer, p DashboardPage) error {
	return pages.ExecuteTemplate(w, "dashboard.html", p)
}

func ErrorPage(w io.Writer, msg string) error {
	return pages.ExecuteTemplate(w, "error.html", msg)
}

func LoadingPage(w io.Writer) error {
	return pages.ExecuteTemplate(w, "loading.html", nil)
}

func ModalUI(w io.Writer, m Modal) error {
	return pages.ExecuteTemplate(w, "modal", m)
}

// SortRows returns a copy of rows, most recent raw date first.
func SortRows(rows []BillRow) []BillRow {
	out := make([]BillRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// GroupByStatus splits rows into the three dashboard sections.
func GroupByStatus(rows []BillRow) []DashboardSection {
	sections := []DashboardSection{
		{Index: 1, Title: "En attente"},
		{Index: 2, Title: "Validé"},
		{Index: 3, Title: "Refusé"},
	}

	for _, r := range SortRows(rows) {
		switch r.Status {
		case bill.StatusPending:
			sections[0].Bills = append(sections[0].Bills, r)
		case bill.StatusAccepted:
			sections[1].Bills = append(sections[1].Bills, r)
		case bill.StatusRefused:
			sections[2].Bills = append(sections[2].Bills, r)
		}
	}

	return sections
}

func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
