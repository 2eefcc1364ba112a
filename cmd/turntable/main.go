// Turntable is a desktop viewer for a single remotely hosted 3D model.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/config"
	"github.com/Faultbox/turntable/internal/logger"
)

// Build metadata, stamped through -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	runtime.LockOSThread()

	showVersion := flag.Bool("version", false, "Print version and exit")
	writeConfig := flag.Bool("write-config", false, "Write the default config file and exit")
	config.ParseFlags()

	if *showVersion {
		fmt.Printf("turntable %s (%s)\n", version, commit)
		return
	}

	if *writeConfig {
		if err := config.Default().Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", filepath.Join(config.ConfigDir(), "turntable.yaml"))
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fatal("Config error", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Turntable ===",
		zap.String("version", version),
		zap.String("server", cfg.Server.URL))
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := NewApp(cfg)
	if err != nil {
		fatal("Startup error", err)
	}
	defer app.Close()

	app.Run()

	logger.Info("Viewer closed normally")
}

// fatal reports an unrecoverable startup error. No viewer UI exists at this
// point, so the error also goes to a native message box.
func fatal(title string, err error) {
	if logger.Log != nil {
		logger.Error(title, zap.Error(err))
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", title, err)
	}
	dialog.Message("%v", err).Title(title).Error()
	os.Exit(1)
}
