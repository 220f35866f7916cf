// Package dom is an in-memory document tree whose elements receive
// connected and disconnected callbacks.
//
// The package supplies the three collaborators the lifecycle package needs:
// Oracle (a node is connected when its root is a document), Internals (a
// deduplicating callback dispatcher) and Primitives (raw sibling and child
// edits). Host ties them to a document:
//
//	host, _ := dom.NewHost()
//	body := dom.NewElement("body")
//	_ = host.Append(host.Document(), dom.Arg(body))
//
//	item := dom.NewElement("x-item").SetCallbacks(dom.Callbacks{
//	    Connected: func(el *dom.Node) { fmt.Println("connected", el) },
//	})
//	_ = host.Append(body, dom.Arg(item), dom.Leaf("text"))
//
// Node.AppendChild is a raw edit that delivers no callbacks; trees built
// with it can be brought up to date with Internals.ConnectTree.
package dom
