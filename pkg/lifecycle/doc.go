// Package lifecycle keeps connect and disconnect reactions in step with batch
// tree edits.
//
// A Synchronizer wraps lifecycle-unaware tree-edit primitives (insert
// siblings before or after a node, replace a node with siblings, remove a
// node, append or prepend children) and works out which nodes changed
// connectivity so it can hand the right subtree roots to a Dispatcher:
//
//	snapshot (which arguments are connected now?)
//	edit     (run the primitive, unchanged)
//	reconcile (disconnect the snapshot, then connect the Element arguments)
//
// The package does not know what a tree is. Connectivity and lifecycle
// capability come from a Host, reactions go through a Dispatcher, and the
// edits themselves are plain functions in Primitives. All three are supplied
// at construction; a Synchronizer holds no other state, so dispatcher
// callbacks may reenter any operation.
//
// # Arguments
//
// Operation arguments are an ordered list of Item values. An Item is either a
// node or a leaf string the primitive materializes (for example as a text
// node). Leaves never take part in reactions:
//
//	err := sync.Before(target,
//	    lifecycle.NodeItem(a),
//	    lifecycle.LeafItem[*dom.Node]("hi"),
//	)
//
// # Ordering
//
// Within one operation every disconnect is issued before any connect, and
// both passes follow argument order. A failed primitive returns its error
// unchanged and no reactions are issued.
package lifecycle
