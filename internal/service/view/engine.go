// Package view derives the filtered, sorted projections of the project
// collection shown by the admin list surfaces. Both Dashboard and Projects
// run the same engine; the surface only widens the search scope.
package view

import (
	"sort"
	"strings"
	"time"

	"letsarc/internal/model"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "All"
	StatusOngoing   StatusFilter = "Ongoing"
	StatusCompleted StatusFilter = "Completed"
)

type ProgressSort string

const (
	ProgressSortAll       ProgressSort = "All"
	ProgressSortCompleted ProgressSort = "Completed"
	ProgressSortOngoing   ProgressSort = "Ongoing"
)

type DateSort string

const (
	DateSortNone     DateSort = "None"
	DateSortEarliest DateSort = "Earliest"
	DateSortOldest   DateSort = "Oldest"
)

type Surface string

const (
	SurfaceProjects  Surface = "projects"
	SurfaceDashboard Surface = "dashboard"
)

// Params is the filter state of one list surface. Zero values mean "no
// filtering" throughout.
type Params struct {
	Status       StatusFilter
	Client       string
	Search       string
	ProgressSort ProgressSort
	DateSort     DateSort
	Surface      Surface
}

// Apply runs the fixed pipeline: status filter, client filter, search filter,
// progress sort, date sort. The stage order must not change; both sort passes
// are stable so the date sort layers over the progress sort instead of
// scrambling it.
func Apply(projects []model.Project, params Params) []model.Project {
	out := make([]model.Project, 0, len(projects))

	search := strings.ToLower(params.Search)
	for _, p := range projects {
		if !matchStatus(p, params.Status) {
			continue
		}
		if !matchClient(p, params.Client) {
			continue
		}
		if !matchSearch(p, search, params.Surface) {
			continue
		}
		out = append(out, p)
	}

	switch params.ProgressSort {
	case ProgressSortCompleted:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Progress.Completed > out[j].Progress.Completed
		})
	case ProgressSortOngoing:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Progress.Completed < out[j].Progress.Completed
		})
	}

	switch params.DateSort {
	case DateSortEarliest:
		sort.SliceStable(out, func(i, j int) bool {
			return dateKey(out[i].Date).Before(dateKey(out[j].Date))
		})
	case DateSortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return dateKey(out[j].Date).Before(dateKey(out[i].Date))
		})
	}

	return out
}

// Clients returns the distinct clientName values in the collection, in
// first-seen order, for the client filter dropdown.
func Clients(projects []model.Project) []string {
	seen := make(map[string]bool, len(projects))
	var clients []string
	for _, p := range projects {
		if !seen[p.ClientName] {
			seen[p.ClientName] = true
			clients = append(clients, p.ClientName)
		}
	}
	return clients
}

func matchStatus(p model.Project, status StatusFilter) bool {
	switch status {
	case StatusOngoing:
		return p.Progress.IsOngoing()
	case StatusCompleted:
		return p.Progress.IsCompleted()
	default:
		return true
	}
}

// matchClient is an exact match: "Acme" must not select "Acme Corp".
func matchClient(p model.Project, client string) bool {
	if client == "" || client == string(StatusAll) {
		return true
	}
	return p.ClientName == client
}

func matchSearch(p model.Project, search string, surface Surface) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.ProjectName), search) {
		return true
	}
	if surface == SurfaceDashboard {
		return strings.Contains(strings.ToLower(p.ClientName), search)
	}
	return false
}

// dateKey parses the ISO calendar-date string. Unparseable dates sort first,
// matching how the source treated them as invalid Date objects.
func dateKey(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}
