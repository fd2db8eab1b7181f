// Package router maps page paths to routes for the logged-in user.
package router

import (
	"github.com/geocoder89/billed/internal/domain/user"
)

const (
	PathLogin     = "/"
	PathBills     = "/employee/bills"
	PathNewBill   = "/employee/bill/new"
	PathDashboard = "/admin/dashboard"
)

// Icon identifies the vertical layout entry to highlight.
type Icon string

const (
	IconNone    Icon = ""
	IconBills   Icon = "layout-icon1"
	IconNewBill Icon = "layout-icon2"
)

type Route struct {
	Path  string
	Title string
	Icon  Icon
}

var routes = map[string]Route{
	PathLogin:     {Path: PathLogin, Title: "Billed"},
	PathBills:     {Path: PathBills, Title: "Mes notes de frais", Icon: IconBills},
	PathNewBill:   {Path: PathNewBill, Title: "Envoyer une note de frais", Icon: IconNewBill},
	PathDashboard: {Path: PathDashboard, Title: "Validations"},
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	r, ok := routes[path]
	return r, ok
}

// Home is where a user lands after login.
func Home(t user.Type) string {
	if t == user.TypeAdmin {
		return PathDashboard
	}
	return PathBills
}

// Resolve decides which route a request for path should render. A session
// without a valid type is treated as logged out.
func Resolve(path string, s user.Session) Route {
	if path == PathLogin || !s.Type.IsValid() || s.Email == "" {
		return routes[PathLogin]
	}

	r, ok := routes[path]
	if !ok {
		return routes[Home(s.Type)]
	}

	switch {
	case s.Type == user.TypeEmployee && r.Path == PathDashboard:
		return routes[PathBills]
	case s.Type == user.TypeAdmin && (r.Path == PathBills || r.Path == PathNewBill):
		return routes[PathDashboard]
	}

	return r
}

// Navigator is called by containers to move to another page.
type Navigator func(path string)

// Recorder is a Navigator that remembers the last path it was sent to.
type Recorder struct {
	Path  string
	Calls int
}

func (r *Recorder) Navigate(path string) {
	r.Path = path
	r.Calls++
}
