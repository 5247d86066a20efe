// Package rod adapts the go-rod driver to the application ports.
package rod

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

var _ output.DriverPort = (*Driver)(nil)

type Driver struct {
	cfg DriverConfig
}

type DriverConfig struct {
	SlowMotion time.Duration
	Trace      bool
	NoSandbox  bool
	DevTools   bool
}

func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		SlowMotion: 0,
		Trace:      false,
		NoSandbox:  true,
		DevTools:   false,
	}
}

func NewDriver(cfg DriverConfig) *Driver {
	return &Driver{cfg: cfg}
}

// Launch starts a browser process and connects to it. The context
// bounds the lifetime of the returned browser, not just the launch.
func (d *Driver) Launch(ctx context.Context, cfg entity.LaunchConfig) (output.Browser, error) {
	bin := cfg.Bin
	if bin == "" {
		path, ok := launcher.LookPath()
		if !ok {
			return nil, fmt.Errorf("%w: no compatible executable found", entity.ErrLaunch)
		}
		bin = path
	}

	l := launcher.New().
		Bin(bin).
		Headless(cfg.Headless).
		Devtools(d.cfg.DevTools).
		NoSandbox(d.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrLaunch, err)
	}

	client := rod.New().
		ControlURL(url).
		Context(ctx).
		Trace(d.cfg.Trace).
		SlowMotion(d.cfg.SlowMotion).
		Logger(log.New(os.Stderr, "[rod] ", log.LstdFlags))

	if err := client.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", entity.ErrLaunch, err)
	}

	return &Browser{browser: client, launcher: l}, nil
}
