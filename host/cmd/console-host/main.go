package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"fwconsole/config"
	"fwconsole/host/mcu"
	"fwconsole/host/serial"
	"fwconsole/protocol"
)

var (
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	mode       = flag.String("mode", "uart", "Console stream: uart (plain text) or frames (SPI console frames from a bridge)")
	configPath = flag.String("config", "", "Console configuration JSON (sets the frame buffer size)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read config: %v\n", err)
			os.Exit(1)
		}
		cfg, err = config.Load(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	portCfg := serial.DefaultConfig(*device)
	portCfg.Baud = *baud

	conn := mcu.NewMCU()
	if *verbose {
		fmt.Fprintf(os.Stderr, "Connecting to %s at %d baud...\n", *device, *baud)
	}
	if err := conn.ConnectWithConfig(portCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Closing the port unblocks the pending read.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	interrupted := make(chan struct{})
	go func() {
		<-interrupt
		close(interrupted)
		conn.Close()
	}()

	var err error
	switch *mode {
	case "uart":
		err = conn.CopyText(os.Stdout)

	case "frames":
		conn.SetBufferSize(frameBufferSize(cfg))
		var onFrame func(protocol.Header)
		if *verbose {
			onFrame = func(h protocol.Header) {
				fmt.Fprintf(os.Stderr, "[frame %d, %d bytes]\n", h.FrameNumber, h.PayloadLength)
			}
		}
		err = conn.CopyFrames(os.Stdout, onFrame)
		if *verbose {
			stats := conn.Stats()
			fmt.Fprintf(os.Stderr, "%d frames, %d missed, %d bytes skipped\n", stats.Frames, stats.Missed, stats.Skipped)
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown mode %q (use uart or frames)\n", *mode)
		os.Exit(1)
	}

	if err != nil {
		select {
		case <-interrupted:
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// frameBufferSize returns the largest frame the stream can carry. Frames
// forwarded by a bridge come from the remote device's read buffer.
func frameBufferSize(cfg *config.Console) uint32 {
	if cfg.Bridge.Enabled {
		return max(cfg.Bridge.BufferSize, cfg.SPI.BufferSize)
	}
	return cfg.SPI.BufferSize
}
