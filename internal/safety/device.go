package safety

import (
	"gocv.io/x/gocv"
)

// Device names accepted by ResolveDevice.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Device is a resolved DNN backend/target pair.
type Device struct {
	Name    string
	Backend gocv.NetBackendType
	Target  gocv.NetTargetType
}

// ResolveDevice maps a configured device preference onto an OpenCV
// DNN backend and target. Only an explicit "cuda" preference selects
// the CUDA backend; "auto" resolves to CPU, which every OpenCV build
// supports. Probing for CUDA devices would need a CUDA-enabled build,
// and SetPreferableBackend rejects the CUDA backend on builds without
// it anyway.
func ResolveDevice(preference string) Device {
	switch preference {
	case DeviceCUDA:
		return Device{Name: DeviceCUDA, Backend: gocv.NetBackendCUDA, Target: gocv.NetTargetCUDA}
	default:
		return Device{Name: DeviceCPU, Backend: gocv.NetBackendDefault, Target: gocv.NetTargetCPU}
	}
}
