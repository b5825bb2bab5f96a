// Package todo is the to-do list domain: its state shape, the updaters that
// change it and the selectors views read it through.
//
// The state is a tree.Map:
//
//	{
//	  "toDos":         {"<key>": {"key", "description", "isFinished"}, ...},
//	  "loadingStatus": {"isLoadingToDos", "lastError", "consecutiveFailures"}
//	}
//
// Updaters for single entries are written against the toDos sub-tree and
// widened with state.Path, so they never touch loadingStatus. Refreshing is
// a three-step sequence (mark loading, fetch, clear loading) whose steps
// commit separately, giving views a chance to show the spinner.
package todo
