package di

import (
	"time"

	"github.com/NORMAL-EX/chrome-control/internal/adapter/mcpserver"
	"github.com/NORMAL-EX/chrome-control/internal/adapter/tools"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/input"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/browser/rod"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/logger"
	"github.com/NORMAL-EX/chrome-control/internal/usecase/session"
)

type Container struct {
	Logger  output.LoggerPort
	Session input.SessionController
	Server  *mcpserver.Server
}

type Config struct {
	Headless    bool
	BrowserBin  string
	Viewport    entity.Viewport
	NavTimeout  time.Duration
	FindTimeout time.Duration
	SlowMotion  time.Duration
	Trace       bool
	LogLevel    string
	LogJSON     bool
	HTTPAddr    string
	Version     string
}

// ConfigFromEnv reads the CHROME_CONTROL_* keys. Every key has a
// working default so an empty environment yields a usable server.
func ConfigFromEnv(envs output.ConfigPort) Config {
	vp := entity.DefaultViewport()
	return Config{
		Headless:   envs.GetBool("CHROME_CONTROL_HEADLESS", false),
		BrowserBin: envs.Get("CHROME_CONTROL_BROWSER_BIN"),
		Viewport: entity.Viewport{
			Width:  envs.GetInt("CHROME_CONTROL_VIEWPORT_WIDTH", vp.Width),
			Height: envs.GetInt("CHROME_CONTROL_VIEWPORT_HEIGHT", vp.Height),
			Scale:  entity.DefaultViewportScale,
		},
		NavTimeout:  envs.GetDuration("CHROME_CONTROL_NAV_TIMEOUT", session.DefaultConfig().Timeout),
		FindTimeout: envs.GetDuration("CHROME_CONTROL_FIND_TIMEOUT", session.DefaultConfig().Timeout),
		SlowMotion:  envs.GetDuration("CHROME_CONTROL_SLOW_MOTION", 0),
		Trace:       envs.GetBool("CHROME_CONTROL_TRACE", false),
		LogLevel:    envs.GetWithDefault("CHROME_CONTROL_LOG_LEVEL", "info"),
		LogJSON:     envs.GetWithDefault("CHROME_CONTROL_LOG_FORMAT", "console") == "json",
		HTTPAddr:    envs.Get("CHROME_CONTROL_HTTP_ADDR"),
	}
}

func NewContainer(cfg Config) *Container {
	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.LogJSON,
		Name:  "chrome-control",
	})

	driverCfg := rod.DefaultDriverConfig()
	driverCfg.SlowMotion = cfg.SlowMotion
	driverCfg.Trace = cfg.Trace
	driver := rod.NewDriver(driverCfg)

	sessionCfg := input.SessionConfig{
		Headless: cfg.Headless,
		Bin:      cfg.BrowserBin,
		Viewport: cfg.Viewport,
		Timeout:  cfg.NavTimeout,
	}
	ctrl := session.NewController(driver, log)
	ctrl.Configure(sessionCfg)

	t := tools.New(ctrl, tools.Config{
		Session:     sessionCfg,
		FindTimeout: cfg.FindTimeout,
	}, log)

	srv := mcpserver.New(t, mcpserver.Config{
		Version:  cfg.Version,
		HTTPAddr: cfg.HTTPAddr,
		JSONLog:  cfg.LogJSON,
	}, log)

	return &Container{
		Logger:  log,
		Session: ctrl,
		Server:  srv,
	}
}

func (c *Container) Close() {
	if c.Session != nil {
		if err := c.Session.Close(); err != nil {
			c.Logger.Warn("Session close failed", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
