package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/logofetch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Production bool
	Logos      logofetch.LogoService
	Writer     logofetch.AssetWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config     kong.ConfigFlag `help:"Load flag values from a YAML file" placeholder:"FILE"`
	LogLevel   string          `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info" env:"LOGOFETCH_LOG_LEVEL"`
	LogFormat  string          `help:"Log format; auto picks json in production" enum:"auto,text,json" default:"auto" env:"LOGOFETCH_LOG_FORMAT"`
	Production bool            `help:"Hide error details and restrict CORS" env:"LOGOFETCH_PRODUCTION"`

	Timeout              time.Duration `default:"15s" help:"Timeout per page or asset request" env:"LOGOFETCH_TIMEOUT"`
	MaxRedirects         int           `default:"5" help:"Redirects followed per request" env:"LOGOFETCH_MAX_REDIRECTS"`
	MaxCandidates        int           `default:"25" help:"Upper bound on candidates per page" env:"LOGOFETCH_MAX_CANDIDATES"`
	GenericFallbackLimit int           `default:"15" help:"Stop the generic <img> fallback above this many candidates" env:"LOGOFETCH_GENERIC_FALLBACK_LIMIT"`
	Concurrency          int           `short:"c" default:"0" help:"Concurrent asset fetches (0 = unbounded)" env:"LOGOFETCH_CONCURRENCY"`
	UserAgent            string        `help:"Override the browser User-Agent sent upstream" env:"LOGOFETCH_USER_AGENT"`

	Render        bool          `help:"Render pages in headless Chrome before collecting" env:"LOGOFETCH_RENDER"`
	RenderTimeout time.Duration `default:"30s" help:"Timeout per rendered page" env:"LOGOFETCH_RENDER_TIMEOUT"`
	BrowserBin    string        `help:"Chrome executable used with --render" env:"LOGOFETCH_BROWSER_BIN"`

	Serve ServeCmd `cmd:"" help:"Run the logo HTTP API"`
	Fetch FetchCmd `cmd:"" help:"Find the logos of a website"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string   `default:":5174" help:"Listen address" env:"LOGOFETCH_ADDR"`
	AllowedOrigins []string `name:"allowed-origins" help:"CORS origins allowed in production" env:"LOGOFETCH_ALLOWED_ORIGINS"`
	JWTSecret      string   `name:"jwt-secret" help:"HMAC secret for API tokens; empty disables auth" env:"LOGOFETCH_JWT_SECRET"`
	JWTIssuer      string   `name:"jwt-issuer" help:"Required token issuer" env:"LOGOFETCH_JWT_ISSUER"`
	JWTAudience    string   `name:"jwt-audience" help:"Required token audience" env:"LOGOFETCH_JWT_AUDIENCE"`
	RateLimit      float64  `default:"0" help:"Requests per second per client (0 = off)" env:"LOGOFETCH_RATE_LIMIT"`
	RateBurst      int      `default:"5" help:"Burst size for the rate limiter" env:"LOGOFETCH_RATE_BURST"`
	TrustProxy     bool     `help:"Take client addresses from X-Forwarded-For" env:"LOGOFETCH_TRUST_PROXY"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL   string `arg:"" help:"Website to search for logos"`
	Out   string `short:"o" type:"path" help:"Save each logo under DIR/<site>/" placeholder:"DIR"`
	JSON  bool   `help:"Print the result as JSON"`
	Quiet bool   `short:"q" help:"Suppress progress output"`
}
