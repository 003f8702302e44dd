//go:build rp2040

package main

import (
	_ "embed"
	"machine"
	"time"

	"fwconsole/config"
	"fwconsole/console"
	"fwconsole/core"
	"fwconsole/fmtx"
	"fwconsole/sink"
	"fwconsole/status"
)

//go:embed console.json
var consoleJSON []byte

const heartbeatInterval = 5000000 // microseconds

var (
	cfg        *config.Console
	gpioDriver *RPGPIODriver

	// Fault reports bypass the console on this UART, when there is one
	faultUART core.UARTDriver

	capture *sink.Buffer
	bridge  *forwarder
	loop    *loopback

	msgerrors uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	core.SetDebugWriter(usbDebugWriter)

	cfg, err = config.Load(consoleJSON)
	if err != nil {
		cfg = config.Default()
	}
	core.SetDebugEnabled(cfg.Debug)

	gpioDriver = NewRPGPIODriver()

	setupConsole()

	if cfg.Bridge.Enabled {
		bridge, err = setupBridge(cfg.Bridge)
		if err != nil {
			msgerrors++
			console.Printf("bridge: %s\r\n", fmtx.Str(err.Error()))
		}
	}

	console.Printf("fwconsole rp2040: %s console, %u MHz\r\n",
		fmtx.Str(cfg.Transport), fmtx.Uint(machine.CPUFrequency()/1000000))
	console.Printf("boot %!r\r\n", fmtx.Stat(status.OK(0)))

	lastBeat := GetHardwareUptime()
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					if faultUART != nil {
						console.FaultReport(faultUART, console.Prefix("PNC:"), msgerrors)
					}
				}
			}()

			if bridge != nil {
				bridge.poll()
			}

			if capture != nil && capture.Len() > 0 {
				fmtx.FhexdumpWith(sink.Writer{W: machine.Serial}, cfg.Hexdump.Format(), capture.Bytes())
				capture.Reset()
			}

			now := GetHardwareUptime()
			if now-lastBeat >= heartbeatInterval {
				lastBeat = now
				heartbeat(now)
			}
		}()

		// Yield to other goroutines
		time.Sleep(100 * time.Microsecond)
	}
}

// setupConsole installs the configured transport on the default console
func setupConsole() {
	switch cfg.Transport {
	case config.TransportUART:
		driver, err := newUARTDriver(cfg.UART)
		if err != nil {
			msgerrors++
			debugf("console: uart setup failed")
			console.SetOutput(nil)
			return
		}
		faultUART = driver
		console.Default().UseUART(driver)

	case config.TransportSPI:
		// No SPI device peripheral here: frames go to a RAM read buffer
		// and are forwarded to USB.
		if cfg.SPI.GPIOHandshake {
			debugf("console: gpio handshake needs a separate reader, polling instead")
		}
		loop = newLoopback(cfg.SPI.BufferSize)
		loop.transport.ResetFrameNumber()
		console.SetOutput(loop)

	case config.TransportCapture:
		capture = console.Default().UseBuffer(make([]byte, cfg.CaptureSize))

	default:
		console.SetOutput(nil)
	}
}

func heartbeat(now uint64) {
	var forwarded uint32
	if bridge != nil {
		forwarded = bridge.frames
	}
	console.Printf("uptime %u s, %u frames forwarded, %u errors\r\n",
		fmtx.Uint(uint32(now/1000000)), fmtx.Uint(forwarded), fmtx.Uint(msgerrors))
}

func machinePin(n uint32) machine.Pin {
	return machine.Pin(n)
}
