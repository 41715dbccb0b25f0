// Package treemap composes the treemap building blocks into a single
// interactive view.
//
// A [View] owns one entry tree and wires together:
//
//   - the zoom controller ([zoom.Controller]) that decides layout weights
//   - the layout engine ([layout.Compute]), memoized on tree, viewport and scope
//   - the color assigner ([color.Assigner]), computed once per tree
//   - the hit-tester ([hittest.Tester]), rebuilt after every fresh layout
//   - the address sync ([address.Sync]) that mirrors user zooms to a host
//
// Every front end (the terminal UI, HTTP viewer sessions and the one-shot
// renderer) drives the same View, so zoom, hover and address behavior is
// identical everywhere.
//
// # Usage
//
//	v := treemap.New(root, treemap.WithHost(host))
//	if err := v.Resize(1280, 720); err != nil {
//	    return err
//	}
//	v.Navigate(initialAddress)
//	for _, item := range v.Frame() {
//	    draw(item)
//	}
//
// A View is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
package treemap
