package todo

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/sdujack2012/remic/internal/binding"
	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/tree"
)

// Selector names accepted by Selectors.
const (
	SelectToDos     = "toDos"
	SelectIsLoading = "isLoadingToDos"
	SelectLastError = "lastError"
	SelectFailures  = "consecutiveFailures"
)

var toDosField = lens.MapField("toDos")

// Items returns the to-dos in key order. Numeric keys sort numerically and
// before any non-numeric key.
func Items(s tree.Value) []Item {
	todos, _ := toDosField.Get(s)
	items := make([]Item, 0, len(todos))
	for key, v := range todos {
		if it, ok := ItemFrom(key, v); ok {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b Item) int { return compareKeys(a.Key, b.Key) })
	return items
}

// Lookup returns the entry under key.
func Lookup(s tree.Value, key string) (Item, bool) {
	v, ok := Collection(s)[key]
	if !ok {
		return Item{}, false
	}
	return ItemFrom(key, v)
}

// IsLoading reports whether a retrieval is in flight. A state without the
// flag counts as not loading.
func IsLoading(s tree.Value) bool {
	return isLoadingField.Or(s, false)
}

// LastError returns the message of the most recent failed refresh, if the
// last refresh failed.
func LastError(s tree.Value) string {
	return lastErrorField.Or(s, "")
}

// Failures returns the number of refreshes that failed in a row.
func Failures(s tree.Value) int {
	return int(failuresField.Or(s, 0))
}

// Counts returns the number of entries and how many of them are finished.
func Counts(s tree.Value) (total, finished int) {
	for _, it := range Items(s) {
		total++
		if it.IsFinished {
			finished++
		}
	}
	return total, finished
}

// Selectors returns the named selectors a view binds to.
func Selectors() binding.Selectors[tree.Value] {
	return binding.Selectors[tree.Value]{
		SelectToDos:     func(s tree.Value) any { return Items(s) },
		SelectIsLoading: func(s tree.Value) any { return IsLoading(s) },
		SelectLastError: func(s tree.Value) any { return LastError(s) },
		SelectFailures:  func(s tree.Value) any { return Failures(s) },
	}
}

func compareKeys(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}
