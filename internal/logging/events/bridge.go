package events

import "github.com/lethe-anon/lethe-ui/internal/logging"

// BridgeTracer records the lifecycle of every backend invocation. Each entry
// carries the invocation id so interleaved completions can be told apart.
type BridgeTracer struct{}

var Bridge = BridgeTracer{}

func (BridgeTracer) Invoke(id, op string, detail map[string]interface{}) {
	payload := map[string]interface{}{"id": id, "op": op}
	for k, v := range detail {
		payload[k] = v
	}
	logging.Trace("bridge.invoke", payload)
}

func (BridgeTracer) Result(id, op string, result interface{}) {
	logging.Trace("bridge.result", map[string]interface{}{"id": id, "op": op, "result": result})
}

func (BridgeTracer) Cancelled(id, op string) {
	logging.Trace("bridge.cancelled", map[string]interface{}{"id": id, "op": op})
}

func (BridgeTracer) Error(id, op string, err error) {
	if err == nil {
		return
	}
	logging.Trace("bridge.error", map[string]interface{}{"id": id, "op": op, "error": err.Error()})
}

func (BridgeTracer) Finished(id, op string) {
	logging.Trace("bridge.finished", map[string]interface{}{"id": id, "op": op})
}

func (BridgeTracer) Label(id, value string) {
	logging.Trace("bridge.label", map[string]interface{}{"element": id, "value": value})
}
