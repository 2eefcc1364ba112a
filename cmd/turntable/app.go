package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/config"
	"github.com/Faultbox/turntable/internal/engine/audio"
	"github.com/Faultbox/turntable/internal/engine/camera"
	"github.com/Faultbox/turntable/internal/engine/debug"
	"github.com/Faultbox/turntable/internal/engine/lighting"
	"github.com/Faultbox/turntable/internal/engine/renderer"
	"github.com/Faultbox/turntable/internal/engine/scene"
	"github.com/Faultbox/turntable/internal/logger"
	"github.com/Faultbox/turntable/internal/network"
	"github.com/Faultbox/turntable/internal/viewer"
)

// fpsLogInterval is how often the frame rate is written to the log.
const fpsLogInterval = 5 * time.Second

// App owns the window backend, the viewer state and the frame callback.
type App struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	cfg     *config.Config

	// ctx is the parent of every operation context; cancelled on Close.
	ctx    context.Context
	cancel context.CancelFunc

	cam   *camera.Fixed
	state *viewer.State
	cues  *audio.Manager
	shots *debug.ScreenshotCapture

	watcher *config.Watcher

	// UI state, owned by the frame callback.
	lastMousePos        imgui.Vec2
	sceneWidth          int32
	sceneHeight         int32
	initialLoadKicked   bool
	screenshotRequested bool
	lastScreenshotMsg   string
	showScreenshotMsg   bool
	screenshotMsgTime   time.Time

	// FPS accounting
	frameCount int
	fpsTimer   time.Time
}

// NewApp creates the window, the GL resources and the viewer state.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
		cam: &camera.Fixed{
			FOVDegrees: cfg.Camera.FOVDegrees,
			Distance:   cfg.Camera.Distance,
			Near:       cfg.Camera.Near,
			Far:        cfg.Camera.Far,
		},
		sceneWidth:  int32(cfg.Window.Width),
		sceneHeight: int32(cfg.Window.Height),
		fpsTimer:    time.Now(),
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	var err error
	app.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	app.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	app.backend.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)

	// OpenGL context exists once the window does
	if err := renderer.Init(); err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	sc, err := scene.New(scene.Config{
		Width:       app.sceneWidth,
		Height:      app.sceneHeight,
		Background:  cfg.Scene.Background,
		ObjectColor: scene.DefaultConfig().ObjectColor,
		Ambient: lighting.Ambient{
			Color:     cfg.Scene.AmbientColor,
			Intensity: cfg.Scene.AmbientIntensity,
		}.Clamped(),
		Key: lighting.NewKeyLight(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	client, err := network.New(cfg.Server.URL, cfg.Server.RequestTimeout, cfg.Server.MaxBodyMB)
	if err != nil {
		sc.Destroy()
		return nil, fmt.Errorf("creating server client: %w", err)
	}

	app.state = viewer.NewState(sc, client, cfg.Input.Sensitivity)

	app.cues = audio.New()
	app.cues.SetEnabled(cfg.Audio.Cues)
	app.cues.SetVolume(cfg.Audio.Volume)
	if cfg.Audio.Cues {
		if err := app.cues.Init(); err != nil {
			logger.Warn("Audio cues unavailable", zap.Error(err))
		}
	}
	app.state.NotifySuccess = app.cues.Success
	app.state.NotifyFailure = app.cues.Failure

	app.shots = debug.NewScreenshotCapture(filepath.Join(os.TempDir(), "turntable"), "turntable")

	// Watch the config file that was actually loaded, if any
	if path := config.ActiveConfigPath(); path != "" {
		app.watcher, err = config.Watch(path, logger.Log)
		if err != nil {
			logger.Warn("Config watching disabled", zap.Error(err))
			app.watcher = nil
		}
	}

	return app, nil
}

// Run starts the frame loop. It returns when the window closes.
func (app *App) Run() {
	app.backend.Run(app.frame)
}

// Close cancels in-flight work and releases resources.
func (app *App) Close() {
	app.cancel()

	if app.watcher != nil {
		app.watcher.Close()
		app.watcher = nil
	}
	if app.state != nil {
		app.state.Close()
		if app.state.Scene != nil {
			app.state.Scene.Destroy()
		}
		app.state = nil
	}
	if app.cues != nil {
		app.cues.Close()
		app.cues = nil
	}
}

// applyConfigChanges drains the config watcher and applies the fields that
// are safe to change while running.
func (app *App) applyConfigChanges() {
	if app.watcher == nil {
		return
	}

	select {
	case cfg := <-app.watcher.Changes():
		logger.SetLevel(cfg.Logging.Level)
		app.state.Rotation.SetSensitivity(cfg.Input.Sensitivity)
		app.state.Scene.Ambient = lighting.Ambient{
			Color:     cfg.Scene.AmbientColor,
			Intensity: cfg.Scene.AmbientIntensity,
		}.Clamped()

		app.cues.SetEnabled(cfg.Audio.Cues)
		app.cues.SetVolume(cfg.Audio.Volume)
		if cfg.Audio.Cues && !app.cues.IsInitialized() {
			if err := app.cues.Init(); err != nil {
				logger.Warn("Audio cues unavailable", zap.Error(err))
			}
		}

		app.cfg = cfg
		logger.Info("Applied config change",
			zap.Float64("sensitivity", cfg.Input.Sensitivity),
			zap.String("log_level", cfg.Logging.Level),
			zap.Bool("audio_cues", cfg.Audio.Cues))
	default:
	}
}

// trackFPS counts frames and logs the rate periodically.
func (app *App) trackFPS() {
	app.frameCount++
	if elapsed := time.Since(app.fpsTimer); elapsed >= fpsLogInterval {
		fps := float64(app.frameCount) / elapsed.Seconds()
		logger.Debug("Frame rate", zap.Float64("fps", fps))
		app.frameCount = 0
		app.fpsTimer = time.Now()
	}
}

// captureScreenshot saves the rendered viewport to a timestamped PNG.
func (app *App) captureScreenshot() {
	pixels, width, height := app.state.Scene.CaptureImage()
	path, err := app.shots.CaptureFromPixels(pixels, int(width), int(height))
	if err != nil {
		logger.Error("Screenshot failed", zap.Error(err))
		app.lastScreenshotMsg = "Screenshot failed"
	} else {
		logger.Info("Screenshot saved", zap.String("path", path))
		app.lastScreenshotMsg = "Saved " + path
	}
	app.showScreenshotMsg = true
	app.screenshotMsgTime = time.Now()
}
