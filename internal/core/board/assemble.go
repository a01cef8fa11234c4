// Package board groups tasks under their columns for the board view.
// This is part of the Functional Core - no I/O, only pure functions.
package board

// Group is one column together with its tasks, in read order.
type Group[C, T any] struct {
	Column C
	Tasks  []T
}

// Assemble groups tasks under the column they belong to.
// Columns keep the order they are given in; so do the tasks within each column.
// Every column gets a non-nil task slice, empty when it has no tasks.
// Tasks whose column is not in columns are dropped.
func Assemble[C, T any](columns []C, tasks []T, columnID func(C) int64, taskColumn func(T) int64) []Group[C, T] {
	groups := make([]Group[C, T], len(columns))
	index := make(map[int64]int, len(columns))
	for i, c := range columns {
		groups[i] = Group[C, T]{Column: c, Tasks: []T{}}
		index[columnID(c)] = i
	}

	for _, t := range tasks {
		i, ok := index[taskColumn(t)]
		if !ok {
			continue
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	return groups
}
