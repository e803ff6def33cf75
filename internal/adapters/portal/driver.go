package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	perr "lexflow/internal/platform/errors"
	"lexflow/internal/platform/logger"
)

// Config controls the driver; zero values fall back to the portal defaults
type Config struct {
	TargetURL string

	// Headless should stay false: the operator completes the SSO login in
	// the visible browser window
	Headless bool

	LoginTimeout time.Duration // how long to wait for the operator to log in
	LoginPoll    time.Duration // interval between login-state checks
	LoginSettle  time.Duration // post-login settle before the page is usable
	SearchWait   time.Duration // bounded wait for the search form
	SearchSettle time.Duration // settle after submitting the search
	DetailWait   time.Duration // per-row detail dialog timeout
}

func (c Config) withDefaults() Config {
	if c.TargetURL == "" {
		c.TargetURL = DefaultTargetURL
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = 5 * time.Minute
	}
	if c.LoginPoll <= 0 {
		c.LoginPoll = time.Second
	}
	if c.LoginSettle <= 0 {
		c.LoginSettle = 5 * time.Second
	}
	if c.SearchWait <= 0 {
		c.SearchWait = 15 * time.Second
	}
	if c.SearchSettle <= 0 {
		c.SearchSettle = 4 * time.Second
	}
	if c.DetailWait <= 0 {
		c.DetailWait = 3 * time.Second
	}
	return c
}

// Driver owns one visible browser and walks it through the portal flow
// Not safe for concurrent use; the sync service holds the single-flight lock
type Driver struct {
	cfg      Config
	sessions *SessionStore
	log      logger.Logger

	state State

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browser       context.Context

	// seams for the extraction loop
	collectRows func() ([]rowSummary, error)
	readRow     func(ctx context.Context, i int) (string, error)
}

// New constructs a driver; Open must be called before any navigation
func New(sessions *SessionStore, cfg Config) *Driver {
	d := &Driver{
		cfg:      cfg.withDefaults(),
		sessions: sessions,
		log:      *logger.Named("portal.driver"),
		state:    StateIdle,
	}
	d.collectRows = d.readGrid
	d.readRow = d.readDetail
	return d
}

// State returns the current lifecycle state
func (d *Driver) State() State { return d.state }

// to validates and applies a state transition
func (d *Driver) to(next State) error {
	if !canEnter(d.state, next) {
		return perr.Internalf("illegal portal driver transition %s -> %s", d.state, next)
	}
	d.log.Debug().Stringer("from", d.state).Stringer("to", next).Msg("driver transition")
	d.state = next
	return nil
}

// fail moves to the Failed terminal state, releasing the browser
func (d *Driver) fail() {
	if canEnter(d.state, StateFailed) {
		d.state = StateFailed
	}
	d.release()
}

// Open launches the browser process and prepares the tab
func (d *Driver) Open(ctx context.Context) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", d.cfg.Headless),
			chromedp.Flag("disable-gpu", false),
			chromedp.Flag("start-maximized", true),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	d.allocCancel = allocCancel
	d.browserCancel = browserCancel
	d.browser = browserCtx

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		d.fail()
		return perr.Wrap(err, perr.ErrorCodeNavigation, "browser launch failed")
	}
	return nil
}

// Navigate drives Idle through login (when required) to SearchReady
func (d *Driver) Navigate(ctx context.Context) error {
	if err := d.to(StateNavigating); err != nil {
		return err
	}

	if snap, ok := d.sessions.Load(); ok {
		d.restore(snap)
	}

	if err := chromedp.Run(d.browser,
		chromedp.Navigate(d.cfg.TargetURL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		d.fail()
		return perr.Wrap(err, perr.ErrorCodeNavigation, "portal navigation failed")
	}

	need, err := d.loginRequired()
	if err != nil {
		d.fail()
		return err
	}
	if need {
		if err := d.to(StateAwaitingLogin); err != nil {
			return err
		}
		d.log.Info().Dur("timeout", d.cfg.LoginTimeout).Msg("awaiting operator login in browser window")
		if err := d.awaitLogin(ctx); err != nil {
			d.fail()
			return err
		}
		d.log.Info().Msg("operator login detected")
	}

	if snap, err := d.capture(); err != nil {
		d.log.Warn().Err(err).Msg("session snapshot capture failed")
	} else {
		d.sessions.Save(snap)
	}

	_ = chromedp.Run(d.browser, chromedp.Sleep(d.cfg.LoginSettle))
	return d.to(StateSearchReady)
}

// Search submits the pre-filled communications search and waits for results
func (d *Driver) Search(ctx context.Context) error {
	if err := d.to(StateSearching); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(d.browser, d.cfg.SearchWait)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(searchFormSelector, chromedp.ByQuery)); err != nil {
		d.fail()
		return perr.Wrap(err, perr.ErrorCodeNavigation, "search form not found on portal page")
	}

	if err := chromedp.Run(d.browser,
		chromedp.Click(searchButtonSelector, chromedp.ByQuery),
		chromedp.Sleep(d.cfg.SearchSettle),
	); err != nil {
		d.fail()
		return perr.Wrap(err, perr.ErrorCodeNavigation, "search submission failed")
	}
	return d.to(StateResultsReady)
}

// Close releases the browser process; safe to call on every path
func (d *Driver) Close() {
	if d.state != StateClosed && d.state != StateFailed {
		d.state = StateClosed
	}
	d.release()
}

func (d *Driver) release() {
	if d.browserCancel != nil {
		d.browserCancel()
		d.browserCancel = nil
	}
	if d.allocCancel != nil {
		d.allocCancel()
		d.allocCancel = nil
	}
}

// loginRequired inspects the current page for the SSO redirect or login form
func (d *Driver) loginRequired() (bool, error) {
	var loc string
	var hasForm bool
	err := chromedp.Run(d.browser,
		chromedp.Location(&loc),
		chromedp.Evaluate(fmt.Sprintf(`!!document.querySelector(%q)`, loginFormSelector), &hasForm),
	)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeNavigation, "login state check failed")
	}
	return needsLogin(loc, hasForm), nil
}

// needsLogin is the pure login-detection rule
func needsLogin(location string, hasLoginForm bool) bool {
	return strings.Contains(location, ssoHost) || hasLoginForm
}

// awaitLogin polls until the operator finishes the SSO flow, the window
// budget expires, or the browser / caller context ends
func (d *Driver) awaitLogin(ctx context.Context) error {
	deadline := time.Now().Add(d.cfg.LoginTimeout)
	tick := time.NewTicker(d.cfg.LoginPoll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return perr.SessionAbortedf("sync canceled while awaiting operator login")
		case <-d.browser.Done():
			return perr.SessionAbortedf("browser closed before login completed")
		case <-tick.C:
			need, err := d.loginRequired()
			if err != nil {
				return perr.SessionAbortedf("browser unavailable while awaiting login: %v", err)
			}
			if !need {
				return nil
			}
			if time.Now().After(deadline) {
				return perr.AuthTimeoutf("operator login not completed within %s", d.cfg.LoginTimeout)
			}
		}
	}
}

// restore replays snapshot cookies and seeds web storage before navigation
// Best-effort: a stale snapshot just means the operator logs in again
func (d *Driver) restore(snap Snapshot) {
	err := chromedp.Run(d.browser, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range snap.Cookies {
			sc := network.SetCookie(c.Name, c.Value).
				WithDomain(strings.TrimPrefix(c.Domain, ".")).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly).
				WithSameSite(sameSiteOf(c.SameSite))
			if exp := cookieExpiry(c.Expires); exp != nil {
				sc = sc.WithExpires(exp)
			}
			if err := sc.Do(ctx); err != nil {
				d.log.Warn().Err(err).Str("cookie", c.Name).Msg("cookie restore failed")
			}
		}
		if len(snap.LocalStorage) > 0 || len(snap.SessionStorage) > 0 {
			script := storageSeedScript(snap.LocalStorage, snap.SessionStorage)
			if _, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx); err != nil {
				d.log.Warn().Err(err).Msg("storage seed failed")
			}
		}
		return nil
	}))
	if err != nil {
		d.log.Warn().Err(err).Msg("session restore failed; proceeding unauthenticated")
		return
	}
	d.log.Debug().Int("cookies", len(snap.Cookies)).Msg("session snapshot restored")
}

// capture reads cookies and web storage from the live tab into a Snapshot
func (d *Driver) capture() (Snapshot, error) {
	var raw []*network.Cookie
	var stores struct {
		Local   map[string]string `json:"local"`
		Session map[string]string `json:"session"`
	}

	err := chromedp.Run(d.browser,
		chromedp.ActionFunc(func(ctx context.Context) error {
			cs, err := network.GetCookies().WithURLs([]string{d.cfg.TargetURL}).Do(ctx)
			if err != nil {
				return err
			}
			raw = cs
			return nil
		}),
		chromedp.Evaluate(dumpStorageJS, &stores),
	)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Cookies:        make([]Cookie, 0, len(raw)),
		LocalStorage:   stores.Local,
		SessionStorage: stores.Session,
	}
	for _, c := range raw {
		snap.Cookies = append(snap.Cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: string(c.SameSite),
		})
	}
	return snap, nil
}

const dumpStorageJS = `(() => {
	const dump = (s) => {
		const out = {};
		for (let i = 0; i < s.length; i++) {
			const k = s.key(i);
			out[k] = s.getItem(k);
		}
		return out;
	};
	return { local: dump(window.localStorage), session: dump(window.sessionStorage) };
})()`

// storageSeedScript builds the pre-navigation script that replays web storage
func storageSeedScript(local, session map[string]string) string {
	lb, _ := json.Marshal(local)
	sb, _ := json.Marshal(session)
	return fmt.Sprintf(`(() => {
	try {
		const seed = (store, data) => {
			for (const [k, v] of Object.entries(data)) store.setItem(k, v);
		};
		seed(window.localStorage, %s);
		seed(window.sessionStorage, %s);
	} catch (e) {}
})();`, lb, sb)
}

// cookieExpiry converts a unix-seconds expiry to CDP time, dropping values
// already in the past
func cookieExpiry(expires float64) *cdp.TimeSinceEpoch {
	if expires <= 0 {
		return nil
	}
	t := time.Unix(int64(expires), 0)
	if !t.After(time.Now()) {
		return nil
	}
	ts := cdp.TimeSinceEpoch(t)
	return &ts
}

func sameSiteOf(s string) network.CookieSameSite {
	switch strings.ToLower(s) {
	case "strict":
		return network.CookieSameSiteStrict
	case "lax":
		return network.CookieSameSiteLax
	case "none":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}
