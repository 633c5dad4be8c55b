// Command nfallbackd is a small server that shows nfallback at work.
//
// Configuration comes from flags, which default to environment
// variables, which may be set in a .env file:
//
//	NFALLBACK_ADDR   listen address (default :8080)
//	NFALLBACK_PAGES  YAML file of error pages (optional)
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/muir/nfallback"
	"github.com/muir/nfallback/nauth"
	"github.com/muir/nfallback/nserve"
	"github.com/muir/nfallback/ntake"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")

	addr := flag.String("addr", envOr("NFALLBACK_ADDR", ":8080"), "listen address")
	pagesPath := flag.String("pages", os.Getenv("NFALLBACK_PAGES"), "YAML file of error pages")
	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot create logger: %s", err)
	}
	defer func() { _ = zl.Sync() }()
	logger := ntake.LoggerFromZap(zl)

	if err := run(*addr, *pagesPath, zl, logger); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}

func run(addr, pagesPath string, zl *zap.Logger, logger ntake.BasicLogger) error {
	reg := prometheus.NewRegistry()
	metrics, err := nfallback.NewMetrics(reg)
	if err != nil {
		return err
	}

	resolvers := []nfallback.Resolver{nfallback.Logging(logger)}
	if pagesPath != "" {
		pages, err := nfallback.LoadPagesFile(pagesPath)
		if err != nil {
			return err
		}
		resolvers = append(resolvers, pages)
	}
	resolvers = append(resolvers, nfallback.Text())

	take := nfallback.New(routes(),
		nfallback.Chain(resolvers...),
		nfallback.WithLogger(logger),
		nfallback.WithMetrics(metrics))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", ntake.Handler(take, logger))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app := nserve.NewApp(ctx)
	serveErr := make(chan error, 1)
	app.On(nserve.Start, func(_ context.Context, app *nserve.App) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		app.On(nserve.Stop, func(context.Context, *nserve.App) error {
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return errors.Wrap(srv.Shutdown(shutdown), "shutdown")
		})
		go func() {
			serveErr <- srv.Serve(ln)
		}()
		zl.Info("listening", zap.String("addr", ln.Addr().String()))
		return nil
	})
	app.On(nserve.Shutdown, func(context.Context, *nserve.App) error {
		_ = zl.Sync()
		return nil
	})

	if err := app.Do(nserve.Start); err != nil {
		return multierr.Append(err, app.Do(nserve.Shutdown))
	}
	select {
	case <-ctx.Done():
		zl.Info("stopping")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		err = errors.Wrap(err, "serve")
	}
	err = multierr.Append(err, app.Do(nserve.Stop))
	return multierr.Append(err, app.Do(nserve.Shutdown))
}

func routes() *ntake.Mux {
	m := ntake.NewMux()
	m.Handle("/", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsText(http.StatusOK, "hello\n"), nil
	})).Methods("GET")
	m.Handle("/logout", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		enc, err := xml.Marshal(nauth.LogoutLink(r))
		if err != nil {
			return nil, err
		}
		return ntake.RsWithType(ntake.RsWithBody(ntake.RsWithStatus(ntake.RsEmpty(), http.StatusOK), enc), "application/xml"), nil
	})).Methods("GET")
	m.Handle("/forbidden", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return nil, ntake.Forbidden(errors.New("you may not"))
	}))
	m.Handle("/panic", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		panic("on purpose")
	}))
	m.Handle("/broken-body", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsOf(ntake.RsEmpty().Head, func() (io.Reader, error) {
			return nil, errors.New("the stream went away")
		}), nil
	}))
	return m
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
