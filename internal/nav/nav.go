// Package nav decides which sections a role can see. Everything here is a
// pure function of its arguments.
package nav

import "github.com/felixgeelhaar/pulsehr/internal/api"

// Tab identifies a section of the shell.
type Tab string

const (
	Dashboard  Tab = "dashboard"
	Employees  Tab = "employees"
	Attendance Tab = "attendance"
	Leaves     Tab = "leaves"
	Feedback   Tab = "feedback"
	Profile    Tab = "profile"

	// Logout is a bottom-menu action, never an active tab.
	Logout Tab = "logout"
)

// Item is one entry in the sidebar.
type Item struct {
	Key   Tab
	Label string
	Icon  string
}

var (
	dashboardItem  = Item{Key: Dashboard, Label: "Dashboard", Icon: "▦"}
	employeesItem  = Item{Key: Employees, Label: "Employees", Icon: "☺"}
	attendanceItem = Item{Key: Attendance, Label: "Attendance", Icon: "✓"}
	leavesItem     = Item{Key: Leaves, Label: "Leaves", Icon: "▤"}
	feedbackItem   = Item{Key: Feedback, Label: "Feedback", Icon: "✉"}
	profileItem    = Item{Key: Profile, Label: "Profile", Icon: "●"}
	logoutItem     = Item{Key: Logout, Label: "Logout", Icon: "⏻"}
)

// ItemsFor returns the main menu for role. Any role other than admin gets
// the employee menu.
func ItemsFor(role api.Role) []Item {
	if role.IsAdmin() {
		return []Item{dashboardItem, employeesItem, attendanceItem, leavesItem, feedbackItem}
	}
	return []Item{dashboardItem, attendanceItem, leavesItem, feedbackItem}
}

// Bottom returns the menu pinned below the main items.
func Bottom() []Item {
	return []Item{profileItem, logoutItem}
}

// CanAccess reports whether role may view tab.
func CanAccess(role api.Role, tab Tab) bool {
	switch tab {
	case Employees:
		return role.IsAdmin()
	case Dashboard, Attendance, Leaves, Feedback, Profile:
		return true
	default:
		return false
	}
}

var titles = map[Tab]string{
	Dashboard:  "Dashboard",
	Employees:  "Employees",
	Attendance: "Attendance",
	Leaves:     "Leave Management",
	Feedback:   "Feedback & Complaints",
	Profile:    "My Profile",
}

// Title is the page heading for tab.
func Title(tab Tab) string {
	if t, ok := titles[tab]; ok {
		return t
	}
	return titles[Dashboard]
}

// Valid reports whether tab names a section.
func Valid(tab Tab) bool {
	_, ok := titles[tab]
	return ok
}

// Tabs lists every section in menu order.
func Tabs() []Tab {
	return []Tab{Dashboard, Employees, Attendance, Leaves, Feedback, Profile}
}
