// Package interactions drives pointer gestures in a real browser.
//
// It layers a small actions builder, element geometry queries, frame
// lookup and polling waits on top of Rod (Chrome DevTools Protocol). Rod
// synthesizes and dispatches the input events; this package decides which
// events to send, in what order and where.
//
// # Quick Start
//
//	page := browser.MustPage(url)
//	src := page.MustElement("#test2")
//	dst := page.MustElement("#test1")
//
//	err := interactions.NewActions(page).
//	    DragAndDrop(src, dst).
//	    Perform(ctx)
//
// Relative drags are bounds checked before the pointer moves:
//
//	err := interactions.NewActions(page).
//	    DragAndDropBy(src, 150, 200).
//	    Perform(ctx)
//	if errors.Is(err, interactions.ErrMoveTargetOutOfBounds) {
//	    // The button is still held; release it.
//	    _ = interactions.NewActions(page).Release().Perform(ctx)
//	}
//
// # Coordinates
//
// Point values are integer document coordinates, the same space
// Location reports. Pointer positions are top-level viewport coordinates
// (proto.Point), which is what Rod's mouse consumes.
package interactions
