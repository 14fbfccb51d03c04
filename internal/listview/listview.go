// Package listview derives what the user list shows from the raw state.
// Nothing here touches the network or the store.
package listview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rail44/userlist/internal/users"
)

// SortOrder is the direction of the name sort
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Toggle returns the opposite order
func (o SortOrder) Toggle() SortOrder {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

// ButtonLabel is the caption of the control that switches to the other order
func (o SortOrder) ButtonLabel() string {
	if o == Ascending {
		return "Sort by Descending"
	}
	return "Sort by Ascending"
}

// ParseSortOrder accepts "asc" or "desc"
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s", s)
	}
}

// Mode is the single display mode active at a time
type Mode int

const (
	ModeReady Mode = iota
	ModeLoading
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	default:
		return "ready"
	}
}

// State is everything the view owns
type State struct {
	Users      []users.User
	SearchTerm string
	SortOrder  SortOrder
	Loading    bool
	Err        string
}

// Mode reports which of loading, error or ready applies. Loading wins over a stale error.
func (s State) Mode() Mode {
	switch {
	case s.Loading:
		return ModeLoading
	case s.Err != "":
		return ModeError
	default:
		return ModeReady
	}
}

// Visible is the filtered and sorted list, recomputed on every call
func (s State) Visible() []users.User {
	return Derive(s.Users, s.SearchTerm, s.SortOrder)
}

// Filter keeps users whose name contains term, ignoring case.
// An empty term keeps everyone.
func Filter(list []users.User, term string) []users.User {
	needle := strings.ToLower(term)
	out := make([]users.User, 0, len(list))
	for _, u := range list {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
		}
	}
	return out
}

// Sort returns a sorted copy ordered by name with plain byte comparison,
// so capitals come before lowercase. Equal names keep their input order.
func Sort(list []users.User, order SortOrder) []users.User {
	out := append([]users.User(nil), list...)
	if order == Descending {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}

// Derive filters then sorts
func Derive(list []users.User, term string, order SortOrder) []users.User {
	return Sort(Filter(list, term), order)
}

// Lines renders the numbered "n. name - email" rows
func Lines(list []users.User) []string {
	lines := make([]string, len(list))
	for i, u := range list {
		lines[i] = fmt.Sprintf("%d. %s - %s", i+1, u.Name, u.Email)
	}
	return lines
}
