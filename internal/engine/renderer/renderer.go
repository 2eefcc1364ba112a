// Package renderer owns OpenGL bootstrap and global pipeline state.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Init loads the OpenGL function pointers and sets the global state the
// viewer renders with.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return nil
}
