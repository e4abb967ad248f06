package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results
const (
	LoadOK      = "ok"
	LoadAbsent  = "absent"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

// Write operations and results
const (
	OpSave  = "save"
	OpClear = "clear"

	WriteOK    = "ok"
	WriteError = "error"
)

var (
	slotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_research_slot_loads_total",
		Help: "Slot loads by slot and result",
	}, []string{"slot", "result"})

	slotWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_research_slot_writes_total",
		Help: "Slot writes by slot, operation and result",
	}, []string{"slot", "op", "result"})
)

// ObserveLoad records one slot load
func ObserveLoad(slot, result string) {
	slotLoads.WithLabelValues(slot, result).Inc()
}

// ObserveWrite records one slot save or clear
func ObserveWrite(slot, op string, err error) {
	result := WriteOK
	if err != nil {
		result = WriteError
	}
	slotWrites.WithLabelValues(slot, op, result).Inc()
}
