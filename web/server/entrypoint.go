// Package server implements the entry point for running the kinematics web server.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.viam.com/utils"

	"go.viam.com/rx160/command"
	"go.viam.com/rx160/config"
	"go.viam.com/rx160/kinematics"
	"go.viam.com/rx160/logging"
	"go.viam.com/rx160/web"
)

// Versioning variables which are replaced by LD flags.
var (
	Version     = ""
	GitRevision = ""
)

const interpreterTimeout = 30 * time.Second

// Arguments for the command.
type Arguments struct {
	ConfigFile  string `flag:"config,usage=service config file"`
	BindAddress string `flag:"bind,usage=address to listen on (overrides the config file)"`
	Debug       bool   `flag:"debug"`
	Version     bool   `flag:"version,usage=print version"`
}

// RunServer is an entry point to starting the web server that can be called by main in a code
// sample or otherwise be used to initialize the server.
func RunServer(ctx context.Context, args []string, logger logging.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	logger.Infof("rx160 kinematics server version: %s, hash: %s", Version, GitRevision)
	if argsParsed.Version {
		return nil
	}

	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		cfg, err = config.Read(argsParsed.ConfigFile)
		if err != nil {
			return err
		}
	}
	if argsParsed.BindAddress != "" {
		cfg.BindAddress = argsParsed.BindAddress
	}
	if cfg.LogFile != "" {
		fileAppender := logging.NewFileAppender(cfg.LogFile, 100, 3)
		defer utils.UncheckedErrorFunc(fileAppender.Close)
		logger.AddAppender(fileAppender)
	}
	if config.InitLoggingSettings(logger, argsParsed.Debug, cfg) == logging.DEBUG {
		exporter := newLoggingSpanExporter(logger.Sublogger("trace"))
		trace.RegisterExporter(exporter)
		defer trace.UnregisterExporter(exporter)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	}

	model, err := cfg.LoadModel()
	if err != nil {
		return err
	}
	if err := kinematics.CheckConsistency(model, cfg.Consistency.Samples, cfg.Consistency.Seed, cfg.Consistency.ToleranceMM); err != nil {
		return errors.Wrapf(err, "model %q failed the startup consistency check", model.Name)
	}
	logger.Infow("model loaded", "name", model.Name, "file", cfg.ModelFile, "samples_checked", cfg.Consistency.Samples)

	var interp command.Interpreter
	if cfg.InterpreterURL != "" {
		interp = command.NewRemoteInterpreter(cfg.InterpreterURL, interpreterTimeout)
	}
	history := command.NewHistory(cfg.HistorySize, cfg.SessionTimeout.Unwrap(), clock.New())
	dispatcher := command.NewDispatcher(model, history, cfg.Display, logger.Sublogger("command"))
	svc := web.New(dispatcher, interp, logger.Sublogger("web"), web.Options{AllowedOrigins: cfg.CORSAllowedOrigins})

	listener, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   time.Minute,
		MaxHeaderBytes: 1 << 20,
		Handler:        svc.Handler(),
	}

	utils.PanicCapturingGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("error shutting down", "error", err)
		}
	})

	logger.Infow("serving", "url", fmt.Sprintf("http://%s", listener.Addr().String()))
	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
