package catalog

import (
	"sort"
)

// Positioned is anything an organizer can reorder.
type Positioned interface {
	ID() uint
	Position() int
	SetPosition(int)
}

// SortByPosition orders by position, then id.
func SortByPosition[T Positioned](list []T) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Position() != list[j].Position() {
			return list[i].Position() < list[j].Position()
		}
		return list[i].ID() < list[j].ID()
	})
}

// Move swaps the element with id and its neighbour, then renumbers the
// whole list from zero. It returns the elements whose position changed.
// Moving the first element up or the last one down only renumbers.
func Move[T Positioned](list []T, id uint, up bool) ([]T, bool) {
	sorted := append([]T(nil), list...)
	SortByPosition(sorted)

	idx := -1
	for i, el := range sorted {
		if el.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	if up && idx > 0 {
		sorted[idx-1], sorted[idx] = sorted[idx], sorted[idx-1]
	} else if !up && idx < len(sorted)-1 {
		sorted[idx+1], sorted[idx] = sorted[idx], sorted[idx+1]
	}

	var changed []T
	for i, el := range sorted {
		if el.Position() != i {
			el.SetPosition(i)
			changed = append(changed, el)
		}
	}
	return changed, true
}

// NextPosition is the position for an element appended to list.
func NextPosition[T Positioned](list []T) int {
	next := 0
	for _, el := range list {
		if el.Position() >= next {
			next = el.Position() + 1
		}
	}
	return next
}
