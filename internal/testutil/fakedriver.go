// Package testutil holds an in-memory browser driver for tests.
package testutil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"shop-automation/internal/types"
)

// FakeDriver serves canned HTML per URL and records every interaction
type FakeDriver struct {
	// Pages maps a URL to the HTML served after navigating to it
	Pages map[string]string
	// PageFunc, when set, renders the current page instead of Pages
	PageFunc func(d *FakeDriver) string
	// OnEvaluate, when set, produces the result of an evaluated script
	OnEvaluate func(d *FakeDriver, script string) (interface{}, error)
	// NavigateErr fails navigation to the given URLs
	NavigateErr map[string]error
	WaitErr     error

	Current     string
	Navigations []string
	Scripts     []string
	Waits       []string
	Jar         []types.SessionCookie
	Reloads     int
	Closed      bool
}

var _ types.Driver = (*FakeDriver)(nil)

// NewFakeDriver returns a driver serving pages
func NewFakeDriver(pages map[string]string) *FakeDriver {
	if pages == nil {
		pages = map[string]string{}
	}
	return &FakeDriver{Pages: pages, NavigateErr: map[string]error{}}
}

func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	d.Navigations = append(d.Navigations, url)
	if err := d.NavigateErr[url]; err != nil {
		return &types.DriverError{Op: "navigate", Target: url, Err: err}
	}
	d.Current = url
	return ctx.Err()
}

func (d *FakeDriver) Reload(ctx context.Context) error {
	d.Reloads++
	return ctx.Err()
}

func (d *FakeDriver) Evaluate(ctx context.Context, script string, res interface{}) error {
	d.Scripts = append(d.Scripts, script)
	var value interface{} = true
	if d.OnEvaluate != nil {
		var err error
		value, err = d.OnEvaluate(d, script)
		if err != nil {
			return &types.DriverError{Op: "evaluate", Err: err}
		}
	}
	if res == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, res)
}

func (d *FakeDriver) HTML(ctx context.Context) (string, error) {
	if d.PageFunc != nil {
		return d.PageFunc(d), nil
	}
	return d.Pages[d.Current], nil
}

func (d *FakeDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	d.Waits = append(d.Waits, selector)
	return d.WaitErr
}

func (d *FakeDriver) Cookies(ctx context.Context) ([]types.SessionCookie, error) {
	return append([]types.SessionCookie(nil), d.Jar...), nil
}

func (d *FakeDriver) SetCookies(ctx context.Context, cookies []types.SessionCookie) error {
	d.Jar = append(d.Jar, cookies...)
	return nil
}

func (d *FakeDriver) Close() {
	d.Closed = true
}

// HasCookie reports whether the jar holds name=value
func (d *FakeDriver) HasCookie(name, value string) bool {
	for _, c := range d.Jar {
		if c.Name == name && c.Value == value {
			return true
		}
	}
	return false
}

// FastConfig returns the default configuration without settle delays
func FastConfig(baseURL string) *types.Config {
	config := types.DefaultConfig()
	config.BaseURL = baseURL
	config.SettleDelay = 0
	config.ConsentDelay = 0
	config.LoginSettleDelay = 0
	config.AddedDelay = 0
	config.ItemDelay = 0
	config.InspectDelay = 0
	config.ProductWait = time.Millisecond
	return config
}

// QuietLogger returns a logrus logger that discards output
func QuietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
