package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.opencensus.io/trace"
	"go.viam.com/test"
	goutils "go.viam.com/utils"

	"go.viam.com/rx160/logging"
)

func TestRunServer(t *testing.T) {
	logger := logging.NewTestLogger(t)
	port, err := goutils.TryReserveRandomPort()
	test.That(t, err, test.ShouldBeNil)
	addr := fmt.Sprintf("localhost:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunServer(ctx, []string{"rx160-server", "-bind", addr}, logger)
	}()

	var resp *http.Response
	for i := 0; i < 100; i++ {
		resp, err = http.Get("http://" + addr + "/api/v1/model")
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	test.That(t, err, test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)

	cancel()
	select {
	case err := <-errCh:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerRejectsBadModel(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	logPath := filepath.Join(dir, "server.log")
	cfg := `{"model_file": "../../referenceframe/testjson/prismatic.json", "log_file": "` + logPath + `"}`
	test.That(t, os.WriteFile(cfgPath, []byte(cfg), 0o600), test.ShouldBeNil)

	err := RunServer(context.Background(), []string{"rx160-server", "-config", cfgPath}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	logged, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(logged), test.ShouldContainSubstring, "log level initialized")

	err = RunServer(context.Background(), []string{"rx160-server", "-config", filepath.Join(dir, "missing.json")}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, RunServer(context.Background(), []string{"rx160-server", "-version"}, logger), test.ShouldBeNil)
}

func TestLoggingSpanExporter(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	logger.SetLevel(logging.DEBUG)
	exporter := newLoggingSpanExporter(logger)
	exporter.ExportSpan(&trace.SpanData{
		SpanContext: trace.SpanContext{TraceID: trace.TraceID{1}, SpanID: trace.SpanID{2}},
		Name:        "command::Dispatcher::Dispatch",
		Attributes:  map[string]interface{}{"operation": "jacobiano"},
		Status:      trace.Status{Code: trace.StatusCodeInvalidArgument, Message: "joint angles missing"},
	})
	entries := logs.FilterMessage("command::Dispatcher::Dispatch").All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].ContextMap()["operation"], test.ShouldEqual, "jacobiano")
	test.That(t, entries[0].ContextMap()["status_message"], test.ShouldEqual, "joint angles missing")
}
