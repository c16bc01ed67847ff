package flatten

import "context"

// ExpandableIDs returns the ids of every expandable node reachable from
// root when everything is expanded. The walk obeys the same depth
// ceiling, item cap and cycle rules as Flatten.
func ExpandableIDs(root any, opts Options) []string {
	w := newWalker(context.Background(), All, opts)
	rootKey := opts.RootKey
	if rootKey == "" {
		rootKey = DefaultRootKey
	}
	w.visit(rootKey, RootID(rootKey), "", false, root, 0)

	ids := make([]string, 0, len(w.rows))
	for _, r := range w.rows {
		if r.Expandable && !r.DepthLimited {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Children returns the ids of the direct children of root.
func Children(root any, opts Options) []string {
	rootID := RootID(opts.RootKey)
	rows := Flatten(root, ExpandedFunc(func(id string) bool { return id == rootID }), opts)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.HasParent && r.ParentID == rootID {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
