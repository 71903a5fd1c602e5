package events

import (
	"time"

	"github.com/lethe-anon/lethe-ui/internal/logging"
)

type WatcherTracer struct{}

var Watcher = WatcherTracer{}

func (WatcherTracer) Start(interval time.Duration) {
	logging.Trace("watcher.start", map[string]interface{}{"interval": interval.String()})
}

func (WatcherTracer) Poll(count int, err error) {
	payload := map[string]interface{}{"count": count}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("watcher.poll", payload)
}

func (WatcherTracer) Stop() {
	logging.Trace("watcher.stop", nil)
}
