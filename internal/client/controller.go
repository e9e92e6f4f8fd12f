package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tidwall/gjson"
)

// State is the controller's position in the fetch cycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrMalformedResponse means the body lacked a success flag with an html string.
	ErrMalformedResponse = errors.New("client: malformed filter response")
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("client: filter request failed")
)

// View is the part of the page a controller drives.
type View interface {
	SetCurrentLabel(label string)
	SetStatus(text string)
	SwapResults(html string)
}

// Config identifies the widget instance and carries its rendered attributes.
type Config struct {
	InstanceID     string
	Action         string
	Token          string
	LoadingMessage string
	ErrorMessage   string
}

// Controller runs one widget instance. Overlapping selection changes are
// allowed to race; whichever response arrives last is swapped in.
type Controller struct {
	cfg       Config
	fetcher   Fetcher
	view      View
	session   *SessionCache
	accordion *Accordion
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController binds a controller to an already rendered widget. The
// initial markup is bound so its toggles work before any fetch.
func NewController(cfg Config, fetcher Fetcher, view View, session *SessionCache, initialMarkup string, logger *slog.Logger) *Controller {
	if session == nil {
		session = NewSessionCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:       cfg,
		fetcher:   fetcher,
		view:      view,
		session:   session,
		accordion: NewAccordion(),
		logger:    logger.With("component", "client.controller", "instance", cfg.InstanceID),
		state:     StateIdle,
	}
	if _, err := c.accordion.Rebind(initialMarkup); err != nil {
		c.logger.Warn("initial toggle binding failed", "error", err)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Accordion exposes the toggle state of the displayed markup.
func (c *Controller) Accordion() *Accordion {
	return c.accordion
}

// SelectionChanged handles a change of the category selector. label is the
// visible name of the chosen option and is shown immediately. On failure the
// displayed markup is left untouched and the returned error wraps
// ErrNetwork or ErrMalformedResponse.
func (c *Controller) SelectionChanged(ctx context.Context, selection, label string) error {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()
	c.view.SetCurrentLabel(label)

	if html, ok := c.session.Get(c.cfg.InstanceID, selection); ok {
		// clears any failure message left by an earlier fetch
		c.view.SetStatus("")
		c.swap(html)
		return nil
	}

	c.view.SetStatus(c.cfg.LoadingMessage)
	body, err := c.fetcher.Fetch(ctx, Request{
		Action:     c.cfg.Action,
		Token:      c.cfg.Token,
		Selection:  selection,
		InstanceID: c.cfg.InstanceID,
	})
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	html, err := parseResponse(body)
	if err != nil {
		return c.fail(err)
	}

	c.session.Put(c.cfg.InstanceID, selection, html)
	c.view.SetStatus("")
	c.swap(html)
	return nil
}

func (c *Controller) swap(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SwapResults(html)
	if _, err := c.accordion.Rebind(html); err != nil {
		c.logger.Warn("toggle rebinding failed", "error", err)
	}
	c.state = StateIdle
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateError
	c.mu.Unlock()
	c.view.SetStatus(c.cfg.ErrorMessage)
	c.logger.Error("faq filter fetch failed", "error", err)
	return err
}

// parseResponse accepts only {success:true, data:{html:string}}.
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	if success := gjson.GetBytes(body, "success"); success.Type != gjson.True {
		return "", fmt.Errorf("%w: success flag not set", ErrMalformedResponse)
	}
	html := gjson.GetBytes(body, "data.html")
	if html.Type != gjson.String {
		return "", fmt.Errorf("%w: data.html is not a string", ErrMalformedResponse)
	}
	return html.String(), nil
}
