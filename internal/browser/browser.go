// Package browser hands the payment flow to a real browser window and
// reports when the user comes back from the gateway.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Minute

// Navigator opens checkout pages in a visible Chrome window it controls.
// When the window reaches the return URL, or the user closes it, OnReturn
// runs once and the window is shut down. Windows the Navigator closes
// itself through ToLogin, Close or a later Open never run OnReturn. It
// satisfies api.Navigator.
type Navigator struct {
	ReturnURL string
	// OnReturn runs after the user leaves the gateway, by reaching the
	// return URL or by closing the window.
	OnReturn func()
	// OnLogin runs when the API client evicts the session.
	OnLogin func()
	Timeout time.Duration
	Log     *zap.Logger

	mu  sync.Mutex
	win *window
}

// window is one payment window. It is dismissed when the Navigator closes
// it, which is not a return from the gateway.
type window struct {
	cancel    func()
	dismissed atomic.Bool
	once      sync.Once
}

func (w *window) dismiss() {
	w.dismissed.Store(true)
	w.cancel()
}

// finish reports the first way the window ended and tears it down.
// Listener callbacks must not block the event loop, so the work runs on
// its own goroutine.
func (w *window) finish(reason string, onReturn func(), log *zap.Logger) {
	w.once.Do(func() {
		go func() {
			if w.dismissed.Load() {
				log.Debug("payment window dismissed", zap.String("reason", reason))
			} else {
				log.Info("payment window finished", zap.String("reason", reason))
				if onReturn != nil {
					onReturn()
				}
			}
			w.cancel()
		}()
	})
}

func (n *Navigator) ToLogin() {
	n.closeWindow()
	if n.OnLogin != nil {
		n.OnLogin()
	}
}

func (n *Navigator) logger() *zap.Logger {
	if n.Log == nil {
		return zap.NewNop()
	}
	return n.Log
}

// Open launches Chrome at target. It returns once the page has loaded;
// the return is detected in the background. Opening again closes the
// previous window first.
func (n *Navigator) Open(target string) error {
	n.closeWindow()

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	ctx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	cancel := func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}

	log := n.logger()
	w := &window{cancel: cancel}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *page.EventFrameNavigated:
			if ev.Frame.ParentID == "" && MatchesReturn(ev.Frame.URL, n.ReturnURL) {
				w.finish("returned", n.OnReturn, log)
			}
		case *inspector.EventDetached:
			w.finish("closed", n.OnReturn, log)
		}
	})

	if err := chromedp.Run(ctx, chromedp.Navigate(target)); err != nil {
		w.dismiss()
		return fmt.Errorf("opening checkout page: %w", err)
	}

	n.mu.Lock()
	n.win = w
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.finish("window gone", n.OnReturn, log)
	}()
	return nil
}

func (n *Navigator) closeWindow() {
	n.mu.Lock()
	w := n.win
	n.win = nil
	n.mu.Unlock()
	if w != nil {
		w.dismiss()
	}
}

// Close shuts any open payment window without running OnReturn.
func (n *Navigator) Close() {
	n.closeWindow()
}

// MatchesReturn reports whether current is at or below returnURL: same
// scheme and host, and a path under the return path. An empty returnURL
// matches nothing.
func MatchesReturn(current, returnURL string) bool {
	if returnURL == "" {
		return false
	}
	cu, err := url.Parse(current)
	if err != nil {
		return false
	}
	ru, err := url.Parse(returnURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(cu.Scheme, ru.Scheme) || !strings.EqualFold(cu.Host, ru.Host) {
		return false
	}
	rp := strings.TrimSuffix(ru.Path, "/")
	cp := strings.TrimSuffix(cu.Path, "/")
	return cp == rp || strings.HasPrefix(cp, rp+"/")
}

// Printer is the navigator for sessions without a controllable browser:
// it prints the checkout link and leaves reconciliation to the user.
type Printer struct {
	W       io.Writer
	OnLogin func()
}

func (p Printer) ToLogin() {
	if p.OnLogin != nil {
		p.OnLogin()
	}
}

func (p Printer) Open(target string) error {
	_, err := fmt.Fprintf(p.W, "Complete the payment in your browser:\n  %s\n", target)
	return err
}
