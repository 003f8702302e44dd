package main

import (
	"testing"

	"fwconsole/config"
)

func TestFrameBufferSize(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		spi     uint32
		bridge  uint32
		want    uint32
	}{
		{"local buffer", false, 1024, 4096, 1024},
		{"bridge larger", true, 1024, 4096, 4096},
		{"bridge smaller", true, 2048, 512, 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.SPI.BufferSize = tt.spi
			cfg.Bridge.Enabled = tt.enabled
			cfg.Bridge.BufferSize = tt.bridge
			if got := frameBufferSize(cfg); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
