package framework

import (
	"fmt"
	"strings"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/lib/defaults"

	"github.com/gravitational/trace"
)

// Mode selects where the browser runs
type Mode string

const (
	// Local drives a visible browser through a Selenium server on this machine
	Local Mode = "LOCAL"
	// Headless drives a headless browser through a Selenium server on this machine
	Headless Mode = "HEADLESS"
	// Remote drives a headless browser through a Selenium server at SELENIUM_SERVER_URL
	Remote Mode = "REMOTE"
	// ChromeDriver spawns chromedriver locally without a Selenium server
	ChromeDriver Mode = "CHROMEDRIVER"
	// CDP launches Chrome in-process over the DevTools protocol
	CDP Mode = "CDP"
)

// Modes lists all supported modes
var Modes = []Mode{Local, Headless, Remote, ChromeDriver, CDP}

// Target is a resolved execution target
type Target struct {
	Mode Mode `json:"mode"`
	// Server is the Selenium server host, empty for modes without a server
	Server string `json:"server,omitempty"`
	Port   int    `json:"port,omitempty"`
	Path   string `json:"path,omitempty"`
	// StrictSSL controls certificate verification of the Selenium endpoint.
	// Modes without a Selenium server ignore it
	StrictSSL    bool                `json:"strictSSL"`
	Capabilities driver.Capabilities `json:"capabilities"`
}

// URL returns the Selenium endpoint of the target
func (r Target) URL() string {
	server := r.Server
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	return fmt.Sprintf("%v:%v%v", strings.TrimSuffix(server, "/"), r.Port, r.Path)
}

// HasServer returns true if the target talks to a Selenium server
func (r Target) HasServer() bool {
	return r.Server != ""
}

var (
	localArgs = []string{
		"--ignore-certificate-errors",
		"--window-size=" + defaults.WindowSize,
		"--disable-browser-side-navigation",
	}
	headlessArgs = []string{
		"--ignore-certificate-errors",
		"--headless",
		"--disable-gpu",
		"--window-size=" + defaults.WindowSize,
	}
)

// ResolveTarget returns the target for mode.
// remoteServer is only consulted for Remote
func ResolveTarget(mode Mode, remoteServer string) (*Target, error) {
	target := Target{
		Mode: mode,
		Capabilities: driver.Capabilities{
			BrowserName:         defaults.BrowserName,
			AcceptInsecureCerts: true,
		},
		StrictSSL: true,
	}
	switch mode {
	case Local:
		target.Server = defaults.LocalServer
		target.StrictSSL = false
		target.Capabilities.Args = localArgs
	case Headless:
		target.Server = defaults.LocalServer
		target.Capabilities.Args = headlessArgs
		target.Capabilities.Headless = true
	case Remote:
		if remoteServer == "" {
			return nil, trace.BadParameter("SELENIUM_SERVER_URL is required for %v", Remote)
		}
		target.Server = remoteServer
		target.Capabilities.Args = headlessArgs
		target.Capabilities.Headless = true
	case ChromeDriver:
		target.StrictSSL = false
		target.Capabilities.Args = localArgs
	case CDP:
		target.Capabilities.Args = headlessArgs
		target.Capabilities.Headless = true
	default:
		return nil, trace.BadParameter("unknown target mode %q, expected one of %v", mode, Modes)
	}
	if target.HasServer() {
		target.Port = defaults.SeleniumPort
		target.Path = defaults.SeleniumPath
	}
	target.Capabilities.Args = append([]string(nil), target.Capabilities.Args...)
	return &target, nil
}
