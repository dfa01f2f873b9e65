package interactions

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
)

// ElementLocationToBe holds once el's Location equals want.
func ElementLocationToBe(el *rod.Element, want Point) Condition {
	return func(context.Context) (bool, error) {
		got, err := Location(el)
		if err != nil {
			return false, err
		}
		return got == want, nil
	}
}

// TextToBe holds once el's visible text equals want.
func TextToBe(el *rod.Element, want string) Condition {
	return func(context.Context) (bool, error) {
		got, err := el.Text()
		if err != nil {
			return false, fmt.Errorf("failed to read text: %w", err)
		}
		return got == want, nil
	}
}

// TextMatches holds once el's visible text matches re.
func TextMatches(el *rod.Element, re *regexp.Regexp) Condition {
	return func(context.Context) (bool, error) {
		got, err := el.Text()
		if err != nil {
			return false, fmt.Errorf("failed to read text: %w", err)
		}
		return re.MatchString(got), nil
	}
}

// PresenceOfElementLocated waits until selector matches an element in page
// and returns it.
func PresenceOfElementLocated(ctx context.Context, w *Wait, page *rod.Page, selector string) (*rod.Element, error) {
	var found *rod.Element
	err := w.Until(ctx, func(context.Context) (bool, error) {
		has, el, err := page.Has(selector)
		if err != nil {
			return false, err
		}
		if has {
			found = el
		}
		return has, nil
	})
	if err != nil {
		return nil, fmt.Errorf("element %q not present: %w", selector, err)
	}
	return found, nil
}
