package interactions

import (
	"fmt"

	"github.com/go-rod/rod"
)

// Frame returns the index-th frame of page's document, counting iframe and
// frame elements in document order.
//
// The returned page shares the top-level page's pointer, so actions built
// on the top-level page can target elements found through it. Switching
// back to the top-level document is just using the original page again.
func Frame(page *rod.Page, index int) (*rod.Page, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: index %d", ErrNoSuchFrame, index)
	}
	els, err := page.Elements("iframe, frame")
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	if index >= len(els) {
		return nil, fmt.Errorf("%w: index %d, page has %d", ErrNoSuchFrame, index, len(els))
	}
	return FrameElement(els[index])
}

// FrameElement returns the frame document hosted by an iframe element.
func FrameElement(el *rod.Element) (*rod.Page, error) {
	frame, err := el.Frame()
	if err != nil {
		return nil, fmt.Errorf("failed to switch to frame: %w", err)
	}
	return frame, nil
}
