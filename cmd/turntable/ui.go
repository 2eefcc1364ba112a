package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/turntable/internal/viewer"
)

// frame is called by the backend once per frame. All viewer state mutation
// happens here or in goroutine results drained here.
func (app *App) frame() {
	// Deferred capture so the file holds the frame the user actually saw
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	app.applyConfigChanges()

	// First frame kicks off the initial model fetch
	if !app.initialLoadKicked {
		app.initialLoadKicked = true
		app.state.RequestLoad(app.ctx)
	}

	app.state.Update()
	app.trackFPS()
	app.handleShortcuts()

	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse |
		imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(workSize)
	if imgui.BeginV("##Viewer", nil, flags) {
		app.renderToolbar()
		app.renderViewport()
		app.renderStatusLine()
	}
	imgui.End()

	app.renderBusyModal()
	app.renderFailureModal()
	app.renderScreenshotNotice()
}

// handleShortcuts maps keys to the toolbar actions. The coordinator rejects
// requests while one is running, so no extra guarding is needed here.
func (app *App) handleShortcuts() {
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.screenshotRequested = true
	}

	if imgui.IsAnyItemActive() {
		return
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyG)) {
		app.state.RequestGenerate(app.ctx)
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyR)) {
		app.state.RequestLoad(app.ctx)
	}
}

func (app *App) renderToolbar() {
	if imgui.Button("Generate") {
		app.state.RequestGenerate(app.ctx)
	}
	imgui.SameLine()
	if imgui.Button("Reload Model") {
		app.state.RequestLoad(app.ctx)
	}
	imgui.SameLine()
	imgui.TextDisabled("(drag to rotate, G generate, R reload, F12 screenshot)")
}

// renderViewport draws the rendered scene image and folds hovered drags into
// the turntable rotation.
func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()

	displayW := avail.X
	displayH := avail.Y - imgui.FrameHeightWithSpacing()
	if displayW < 1 {
		displayW = 1
	}
	if displayH < 1 {
		displayH = 1
	}

	// Keep the offscreen framebuffer matched to the visible region
	if int32(displayW) != app.sceneWidth || int32(displayH) != app.sceneHeight {
		app.sceneWidth = int32(displayW)
		app.sceneHeight = int32(displayH)
		app.state.Scene.Resize(app.sceneWidth, app.sceneHeight)
	}

	textureID := app.state.Scene.Render(app.cam)

	// Display rendered texture (flip V for OpenGL)
	bg := app.cfg.Scene.Background
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(displayW, displayH),
		imgui.NewVec2(0, 1), // UV flipped
		imgui.NewVec2(1, 0),
		imgui.NewVec4(bg[0], bg[1], bg[2], 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	// Only the horizontal component rotates the model; vertical movement
	// is ignored.
	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.state.HandleDrag(mousePos.X - app.lastMousePos.X)
		}
		app.lastMousePos = mousePos
	}
}

func (app *App) renderStatusLine() {
	line := fmt.Sprintf("%.0f fps", imgui.CurrentIO().Framerate())

	if cur := app.state.Scene.Current(); cur != nil {
		line += fmt.Sprintf(" | %d vertices | %d triangles | angle %.2f rad",
			app.state.Vertices, app.state.Triangles, cur.Angle())
	} else {
		line += " | no model"
	}
	if app.state.LastMessage != "" {
		line += " | " + app.state.LastMessage
	}

	imgui.Text(line)
}

// centerNextWindow positions the next window at the viewport center.
func (app *App) centerNextWindow() {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	center := imgui.NewVec2(workPos.X+workSize.X*0.5, workPos.Y+workSize.Y*0.5)
	imgui.SetNextWindowPosV(center, imgui.CondAppearing, imgui.NewVec2(0.5, 0.5))
}

// renderBusyModal keeps a modal open while an operation runs, which blocks
// the rest of the UI until it finishes.
func (app *App) renderBusyModal() {
	status := app.state.Status()
	if status.Busy() {
		imgui.OpenPopupStr("Working##busy")
	}

	app.centerNextWindow()
	if imgui.BeginPopupModalV("Working##busy", nil, imgui.WindowFlagsAlwaysAutoResize|imgui.WindowFlagsNoMove) {
		if status.Op == viewer.OpGenerating {
			imgui.Text("Generating model...")
		} else {
			imgui.Text("Loading model...")
		}
		if !status.Busy() {
			imgui.CloseCurrentPopup()
		}
		imgui.EndPopup()
	}
}

// renderFailureModal shows the failure text until the user acknowledges it.
func (app *App) renderFailureModal() {
	status := app.state.Status()
	if status.Failed() {
		imgui.OpenPopupStr("Error##failed")
	}

	app.centerNextWindow()
	if imgui.BeginPopupModalV("Error##failed", nil, imgui.WindowFlagsAlwaysAutoResize|imgui.WindowFlagsNoMove) {
		imgui.Text(status.Message)
		imgui.Spacing()
		if imgui.ButtonV("OK", imgui.NewVec2(120, 0)) {
			app.state.AckFailure()
			imgui.CloseCurrentPopup()
		}
		imgui.EndPopup()
	}
}

// renderScreenshotNotice shows the capture result for a couple of seconds.
func (app *App) renderScreenshotNotice() {
	if !app.showScreenshotMsg {
		return
	}
	if time.Since(app.screenshotMsgTime) >= 2*time.Second {
		app.showScreenshotMsg = false
		return
	}

	workPos := imgui.MainViewport().WorkPos()
	notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+10, workPos.Y+10))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##ScreenshotNotify", nil, notifyFlags) {
		imgui.Text(app.lastScreenshotMsg)
	}
	imgui.End()
}
