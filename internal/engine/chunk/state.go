package chunk

// State is a chunk's lifecycle stage.
//
//	Empty → Queued → Generating → MeshReady → GpuResident
//	Queued | Generating → PendingDestruction → Disposed
//	Empty | MeshReady | GpuResident → Disposed
//	Generating → Empty (failed generation)
type State int32

const (
	Empty State = iota
	Queued
	Generating
	MeshReady
	GpuResident
	PendingDestruction
	Disposed
)

var stateNames = [...]string{
	Empty:              "empty",
	Queued:             "queued",
	Generating:         "generating",
	MeshReady:          "mesh-ready",
	GpuResident:        "gpu-resident",
	PendingDestruction: "pending-destruction",
	Disposed:           "disposed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
