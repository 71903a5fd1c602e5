package events

import "github.com/lethe-anon/lethe-ui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) HostUnavailable(capability string, err error) {
	payload := map[string]interface{}{"capability": capability}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.host-unavailable", payload)
}

func (AppTracer) Exit(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.exit", payload)
}
