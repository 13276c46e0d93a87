/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unikorn-cloud/posts-apitest/pkg/mockserver"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	ListenAddress string
	Database      string
	LogLevel      string
	Validate      bool
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.String("listen-address", ":3000", "Address to serve the mock API on.")
	f.String("db", "", "JSON database document to seed from, the built in fixtures when empty.")
	f.String("log-level", "info", "Log level, one of debug, info, warn or error.")
	f.Bool("validate", true, "Validate Posts requests against the OpenAPI document.")
}

// load resolves options from flags, then POSTS_MOCK_ prefixed environment
// variables, then defaults.
func (o *options) load(f *pflag.FlagSet) error {
	v := viper.New()

	v.SetEnvPrefix("posts_mock")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(f); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	o.ListenAddress = v.GetString("listen-address")
	o.Database = v.GetString("db")
	o.LogLevel = v.GetString("log-level")
	o.Validate = v.GetBool("validate")

	return nil
}

func newLogger(level string) (logr.Logger, error) {
	var zapLevel zapcore.Level

	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return logr.Discard(), fmt.Errorf("unknown log level '%s'", level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zapLevel,
	)

	return zapr.NewLogger(zap.New(core, zap.AddCaller())), nil
}

func run(ctx context.Context, o *options, logger logr.Logger) error {
	serverOptions := &mockserver.Options{
		Validate: o.Validate,
		Logger:   logger,
	}

	if o.Database != "" {
		data, err := os.ReadFile(o.Database)
		if err != nil {
			return fmt.Errorf("reading database: %w", err)
		}

		serverOptions.Database = data
	}

	handler, err := mockserver.New(serverOptions)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              o.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		errs <- server.ListenAndServe()
	}()

	logger.Info("mock server listening", "address", o.ListenAddress, "validate", o.Validate)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func main() {
	var o options

	o.addFlags(pflag.CommandLine)

	pflag.Parse()

	if err := o.load(pflag.CommandLine); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger, err := newLogger(o.LogLevel)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &o, logger); err != nil {
		logger.Error(err, "mock server failed")
		stop()
		os.Exit(1) //nolint:gocritic // stop is called above
	}
}
