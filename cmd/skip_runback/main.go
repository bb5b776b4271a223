package main

import "C" // required for -buildmode=c-shared

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/internal/app"
	"github.com/skiprunback/extension/internal/config"
	"github.com/skiprunback/extension/internal/console"
	"github.com/skiprunback/extension/internal/logging"
	"github.com/skiprunback/extension/internal/memory"
	"github.com/skiprunback/extension/internal/monitor"
	intOtel "github.com/skiprunback/extension/internal/otel"
	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/internal/process"
	"github.com/skiprunback/extension/internal/registry"
	"github.com/skiprunback/extension/internal/waypoint"
	"github.com/skiprunback/extension/pkg/nativebridge"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.1.0"
	BuildDate               string = "unknown"

	ExtensionName string = "skip_runback"
)

var (
	// ModuleFolder holds the extension, its config and the plugin file.
	ModuleFolder string

	LogFile *os.File

	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	OTelProvider *intOtel.Provider
	gelfCloser   io.Closer

	// Console is allocated on demand and receives console log output.
	Console = &console.Console{}

	SessionStartTime = time.Now()

	current   atomic.Pointer[app.App]
	lifecycle sync.Mutex
	startOnce sync.Once
	stopRun   context.CancelFunc
	runDone   chan struct{}

	// statusMonitor is nil unless the status file is enabled.
	statusMonitor *monitor.Service
)

// consoleOut writes to stdout while a console is open.
type consoleOut struct{}

func (consoleOut) Write(p []byte) (int, error) {
	if !Console.Open() {
		return len(p), nil
	}
	return os.Stdout.Write(p)
}

func init() {
	ModuleFolder = filepath.Dir(nativebridge.ModulePath())
	if ModuleFolder == "." {
		ModuleFolder, _ = os.Getwd()
	}

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(logging.Options{Level: "info", Console: true, Stdout: consoleOut{}})
	Logger = SlogManager.Logger()

	if err := config.Load(ModuleFolder); err != nil {
		Logger.Error("Failed to load config, skip runback is disabled", "error", err)
		console.Alert("Failed to validate SkipRun config", err.Error()+"\nSkipRun will now stop")
		return
	}
	host := config.GetHostConfig()
	if err := Console.Set(host.Console); err != nil {
		Logger.Warn("Failed to open console", "error", err)
	}

	setupLogging(host)
	Logger.Info("Loaded config", "path", config.Path(), "version", CurrentExtensionVersion, "buildDate", BuildDate)

	nativebridge.SetVersion(CurrentExtensionVersion)
	nativebridge.SetLogSink(SlogManager.WriteLog)
	nativebridge.OnShutdown(shutdown)
	nativebridge.OnReady(func() { startOnce.Do(start) })
}

func setupLogging(host config.HostConfig) {
	var err error
	LogFile, err = logging.OpenLogFile(ModuleFolder, host.LogsDir, ExtensionName, SessionStartTime)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:         otelCfg.Enabled,
			ServiceName:     otelCfg.ServiceName,
			BatchTimeout:    otelCfg.BatchTimeout,
			LogWriter:       logWriter(),
			MetricWriter:    logWriter(),
			MetricsInterval: otelCfg.MetricsInterval,
			Endpoint:        otelCfg.Endpoint,
			Insecure:        otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	opts := logging.Options{
		Console: true,
		Stdout:  consoleOut{},
		Level:   host.LogLevel,
		Context: logContext,
	}
	if LogFile != nil {
		opts.File = LogFile
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	opts.Provider = otelLogProvider

	if gl := config.GetGraylogConfig(); gl.Enabled {
		h, closer, err := logging.DialGELF(gl.Address, host.LogLevel)
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "address", gl.Address, "error", err)
		} else {
			opts.GELF = h
			gelfCloser = closer
		}
	}

	SlogManager.Setup(opts)
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)
}

// logWriter is the log file, or nil when it could not be opened.
func logWriter() io.Writer {
	if LogFile == nil {
		return nil
	}
	return LogFile
}

func zerologFor(component string) zerolog.Logger {
	return logging.NewZerolog(logWriter(), config.GetHostConfig().LogLevel, component)
}

func logContext() []slog.Attr {
	if a := current.Load(); a != nil {
		return a.LogContext()
	}
	return nil
}

// start runs once the native shim is able to attach probes.
func start() {
	lifecycle.Lock()
	defer lifecycle.Unlock()

	deps := plugin.Dependencies{
		Process:     process.Current(),
		Memory:      memory.Local{},
		Interceptor: nativebridge.NewInterceptor(nil),
		Logger:      Logger,
		ProbeLogger: zerologFor("probe"),
	}
	if OTelProvider != nil {
		deps.Meter = OTelProvider.Meter("github.com/skiprunback/extension")
	}

	candidates := registry.All(ModuleFolder, deps)
	selected, err := registry.Select(candidates, deps.Process)
	if err != nil {
		Logger.Error("No applicable plugin could be found, disabling skip runback",
			"candidates", registry.Names(candidates), "error", err)
		return
	}
	Logger.Info("Found plugin to use for skipping runback", "plugin", selected.Identifiers().PluginName)

	store, err := waypoint.New(config.GetStorageConfig(), ModuleFolder, zerologFor("waypoints"))
	if err != nil {
		Logger.Error("Failed to open waypoint storage, waypoints will not persist", "error", err)
	}

	a, err := app.New(app.Dependencies{
		Plugin:         selected,
		Waypoints:      store,
		Console:        Console,
		Settings:       app.CurrentSettings(),
		Reload:         app.ReloadSettings,
		Logger:         Logger,
		DispatchLogger: logging.NewCommandLogger(zerologFor("dispatcher")),
	})
	if err != nil {
		Logger.Error("Failed to start skip runback", "error", err)
		if store != nil {
			store.Close()
		}
		return
	}
	current.Store(a)
	nativebridge.SetDispatcher(a.Dispatcher())

	if sc := config.GetStatusConfig(); sc.Enabled {
		statusMonitor = monitor.NewService(monitor.Dependencies{
			Status:   a.Status,
			Path:     filepath.Join(ModuleFolder, sc.File),
			Interval: sc.Interval,
			Logger:   Logger,
		})
		statusMonitor.Start()
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopRun = cancel
	runDone = make(chan struct{})
	go func() {
		defer close(runDone)
		a.Run(ctx)
	}()
}

func shutdown() {
	lifecycle.Lock()
	defer lifecycle.Unlock()

	Logger.Info("Shutting down")
	if statusMonitor != nil {
		statusMonitor.Stop()
	}
	if stopRun != nil {
		stopRun()
		<-runDone
	}
	// Late SkipCommand calls must not reach a closed dispatcher.
	nativebridge.SetDispatcher(nil)
	if a := current.Load(); a != nil {
		if err := a.Close(); err != nil {
			Logger.Error("Failed to close waypoint storage", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Error("Failed to shut down OTel provider", "error", err)
		}
	}
	SlogManager.Flush(ctx)
	if gelfCloser != nil {
		gelfCloser.Close()
	}
	if LogFile != nil {
		LogFile.Close()
	}
}

func main() {}
