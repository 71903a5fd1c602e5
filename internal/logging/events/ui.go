package events

import "github.com/lethe-anon/lethe-ui/internal/logging"

type UITracer struct{}

type InputTracer struct{}

var (
	UI    = UITracer{}
	Input = InputTracer{}
)

func (UITracer) Focus(control string) {
	logging.Trace("ui.focus", map[string]interface{}{"control": control})
}

func (UITracer) Activate(control string) {
	logging.Trace("ui.activate", map[string]interface{}{"control": control})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Quit(reason string) {
	logging.Trace("ui.quit", map[string]interface{}{"reason": reason})
}

func (InputTracer) Changed(element, value string) {
	logging.Trace("input.change", map[string]interface{}{"element": element, "value": value})
}

func (InputTracer) Rejected(element string, err error) {
	if err == nil {
		return
	}
	logging.Trace("input.rejected", map[string]interface{}{"element": element, "error": err.Error()})
}
