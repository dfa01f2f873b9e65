//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/dnd/cmd/dnd-fixtures/server"
	"github.com/thesyncim/dnd/internal/logger"
	"github.com/thesyncim/dnd/pkg/interactions"
	"github.com/thesyncim/dnd/pkg/interactions/testutil"
)

// harness is one fixture server plus one browser, torn down with the test.
type harness struct {
	t      *testing.T
	ctx    context.Context
	srv    *server.Server
	client *testutil.BrowserClient
	wait   *interactions.Wait
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.Logger = logger.New(false)
	srv, err := server.NewServer(cfg)
	require.NoError(t, err, "failed to create server")

	addr, err := srv.Start()
	require.NoError(t, err, "failed to start server")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})
	t.Logf("Server started on %s", addr)

	client, err := testutil.NewBrowserClient(testutil.DefaultBrowserConfig())
	require.NoError(t, err, "failed to create browser")
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	return &harness{
		t:      t,
		ctx:    ctx,
		srv:    srv,
		client: client,
		wait:   interactions.DefaultWait(),
	}
}

// open navigates to a fixture page and waits for it to settle.
func (h *harness) open(file string) *rod.Page {
	h.t.Helper()

	url := h.srv.URL(file)
	h.t.Logf("Navigating to %s", url)
	page, err := h.client.Navigate(url)
	require.NoError(h.t, err)
	require.NoError(h.t, h.client.WaitStable(), "page not stable")
	return page
}

// actions starts a gesture on the top-level page, tracing steps when
// DEBUG=true.
func (h *harness) actions() *interactions.Actions {
	return interactions.NewActions(h.client.Page(), interactions.WithLogger(logger.New(false)))
}

// location returns el's location, failing the test on error.
func (h *harness) location(el *rod.Element) interactions.Point {
	h.t.Helper()
	p, err := interactions.Location(el)
	require.NoError(h.t, err)
	return p
}

// drag moves el by (dx, dy) and returns where it is now expected to be.
func (h *harness) drag(el *rod.Element, expected interactions.Point, dx, dy int) interactions.Point {
	h.t.Helper()
	require.NoError(h.t, h.actions().DragAndDropBy(el, dx, dy).Perform(h.ctx))
	return expected.MoveBy(dx, dy)
}
