package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestResolveDevice(t *testing.T) {
	tests := []struct {
		preference string
		name       string
		backend    gocv.NetBackendType
		target     gocv.NetTargetType
	}{
		{DeviceCPU, DeviceCPU, gocv.NetBackendDefault, gocv.NetTargetCPU},
		{DeviceCUDA, DeviceCUDA, gocv.NetBackendCUDA, gocv.NetTargetCUDA},
		{DeviceAuto, DeviceCPU, gocv.NetBackendDefault, gocv.NetTargetCPU},
		{"", DeviceCPU, gocv.NetBackendDefault, gocv.NetTargetCPU},
		{"tpu", DeviceCPU, gocv.NetBackendDefault, gocv.NetTargetCPU},
	}

	for _, tt := range tests {
		t.Run(tt.preference, func(t *testing.T) {
			device := ResolveDevice(tt.preference)
			assert.Equal(t, tt.name, device.Name)
			assert.Equal(t, tt.backend, device.Backend)
			assert.Equal(t, tt.target, device.Target)
		})
	}
}
