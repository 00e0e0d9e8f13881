package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	honeybee "github.com/linkdata/ct-honeybee"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"golang.org/x/net/proxy"
)

type options struct {
	LogList     string
	Output      string
	Timeout     int
	Concurrency int
	Proxy       string
	RequestLog  string
	UserAgent   string
	VerifyTLS   bool
	Verbose     bool
	Version     bool
}

func main() {
	if err := process(); err != nil {
		gologger.Fatal().Msgf("%s", err)
	}
}

func process() (err error) {
	opts := &options{}
	if err = readFlags(opts); err != nil {
		return fmt.Errorf("could not read flags: %w", err)
	}
	if opts.Version {
		gologger.Info().Msgf("%s %s", honeybee.PkgName, honeybee.PkgVersion)
		return nil
	}
	if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	var cfg *honeybee.Config
	if cfg, err = opts.config(); err != nil {
		return
	}

	var reg *honeybee.Registry
	if reg, err = honeybee.LoadLogList(opts.LogList); err != nil {
		return
	}
	gologger.Verbose().Msgf("loaded %d logs from %s", reg.Len(), opts.LogList)

	if opts.Output != "" {
		var f *os.File
		if f, err = os.Create(opts.Output); err != nil {
			return
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		cfg.Output = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return honeybee.Run(ctx, cfg, reg)
}

func readFlags(opts *options) error {
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`ct-honeybee fetches the signed tree heads of Certificate Transparency logs and prints them as JSON.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.LogList, "list", "l", honeybee.DefaultLogListPath(), "log list file to read (-l honeybee.json)"),
	)

	flagSet.CreateGroup("configs", "Configurations",
		flagSet.IntVarP(&opts.Timeout, "timeout", "t", int(honeybee.DefaultTimeout/time.Second), "per-log fetch timeout in seconds"),
		flagSet.IntVarP(&opts.Concurrency, "concurrency", "c", 8, "number of logs to fetch at the same time"),
		flagSet.StringVar(&opts.Proxy, "proxy", "", "SOCKS5 proxy address to fetch through (host:port)"),
		flagSet.StringVar(&opts.UserAgent, "user-agent", "", "User-Agent header to send (default none)"),
		flagSet.BoolVar(&opts.VerifyTLS, "verify-tls", false, "verify log TLS certificates"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "file to write the STH array to (default stdout)"),
		flagSet.StringVar(&opts.RequestLog, "request-log", "", "file to append a line per get-sth fetch to"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Version, "version", false, "display version"),
	)

	return flagSet.Parse()
}

func (opts *options) config() (cfg *honeybee.Config, err error) {
	cfg = honeybee.NewConfig()
	cfg.Timeout = time.Duration(opts.Timeout) * time.Second
	cfg.Concurrency = opts.Concurrency
	cfg.UserAgent = opts.UserAgent
	cfg.RequestLog = opts.RequestLog
	cfg.SkipCertVerify = !opts.VerifyTLS
	if opts.Verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if opts.Proxy != "" {
		var d proxy.Dialer
		if d, err = proxy.SOCKS5("tcp", opts.Proxy, nil, proxy.Direct); err == nil {
			if cd, ok := d.(proxy.ContextDialer); ok {
				cfg.Dialer = cd
			} else {
				err = fmt.Errorf("proxy %q: dialer does not support contexts", opts.Proxy)
			}
		}
	}
	return
}
