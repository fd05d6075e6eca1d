// Package ui shows export progress in the system tray while the exporter
// runs as a service.
package ui

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/heimdex/bsi-exporter/internal/export"
)

//go:embed icon.png
var iconBytes []byte

// Tray is an export.ProgressSink that mirrors progress in the tray menu.
// Updates that arrive before the menu is ready are kept and applied on ready.
type Tray struct {
	logger *slog.Logger

	statusItem   *systray.MenuItem
	progressItem *systray.MenuItem
	lastItem     *systray.MenuItem

	mu       sync.Mutex
	status   string
	progress string
	last     string

	onQuit func()
}

type TrayConfig struct {
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		logger:   cfg.Logger,
		onQuit:   cfg.OnQuit,
		status:   "Status: Idle",
		progress: "Progress: -",
		last:     "Last export: none",
	}
}

// Run blocks until Quit is called or the Quit item is clicked.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("BSI")
	systray.SetTooltip("BSI Exporter")

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem(t.status, "Exporter status")
	t.statusItem.Disable()
	t.progressItem = systray.AddMenuItem(t.progress, "Current clip")
	t.progressItem.Disable()
	t.lastItem = systray.AddMenuItem(t.last, "Outcome of the last export run")
	t.lastItem.Disable()
	t.mu.Unlock()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit BSI Exporter")

	go func() {
		<-quitItem.ClickedCh
		t.logger.Info("quit requested from tray")
		if t.onQuit != nil {
			t.onQuit()
		}
		systray.Quit()
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

// Progress implements export.ProgressSink.
func (t *Tray) Progress(clip string, fraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if fraction >= 1 {
		t.status = "Status: Idle"
	} else {
		t.status = "Status: Exporting"
	}
	t.progress = progressTitle(clip, fraction)
	t.apply()
}

// SetResult shows the outcome of a finished run.
func (t *Tray) SetResult(res *export.Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = "Status: Idle"
	t.last = resultTitle(res, err)
	t.apply()
}

func (t *Tray) apply() {
	if t.statusItem == nil {
		return
	}
	t.statusItem.SetTitle(t.status)
	t.progressItem.SetTitle(t.progress)
	t.lastItem.SetTitle(t.last)
}

func (t *Tray) Quit() {
	systray.Quit()
}

func progressTitle(clip string, fraction float64) string {
	pct := int(fraction*100 + 0.5)
	pct = max(0, min(pct, 100))
	if clip == "" {
		return fmt.Sprintf("Progress: %d%%", pct)
	}
	return fmt.Sprintf("Progress: %s %d%%", clip, pct)
}

func resultTitle(res *export.Result, err error) string {
	if res == nil {
		return "Last export: failed"
	}
	if err != nil {
		return fmt.Sprintf("Last export: aborted after %d clips", len(res.Exported))
	}
	return fmt.Sprintf("Last export: %s (%d written, %d failed)", res.Status(), len(res.Exported), len(res.Failed))
}
