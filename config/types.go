package config

// Transport names accepted in Console.Transport
const (
	TransportNone    = "none"
	TransportUART    = "uart"
	TransportSPI     = "spi"
	TransportCapture = "capture"
)

// Bridge drivers accepted in BridgeConfig.Driver
const (
	BridgeDriverFlash = "flash"
	BridgeDriverBus   = "bus"
)

// UARTConfig configures the UART console transport
type UARTConfig struct {
	Baud  uint32 `json:"baud"`
	TxPin string `json:"tx_pin"` // GPIO pin name, e.g. "gpio0"
	RxPin string `json:"rx_pin"`
	PIO   bool   `json:"pio"` // Transmit from a PIO state machine instead of the hardware UART
}

// SPIConfig configures the SPI device console transport
type SPIConfig struct {
	BufferSize    uint32 `json:"buffer_size"` // Read buffer capacity in bytes
	TxReadyPin    string `json:"tx_ready_pin"`
	GPIOHandshake bool   `json:"gpio_handshake"` // Use TxReadyPin instead of polling
}

// HexdumpConfig sets the memory dump layout
type HexdumpConfig struct {
	BytesPerWord int `json:"bytes_per_word"`
	WordsPerLine int `json:"words_per_line"`
}

// BridgeConfig configures forwarding another device's SPI console
type BridgeConfig struct {
	Enabled    bool   `json:"enabled"`
	Bus        string `json:"bus"`    // SPI bus name, e.g. "spi0c"
	Driver     string `json:"driver"` // "flash" (flash chip driver) or "bus" (raw READ transactions)
	BufferSize uint32 `json:"buffer_size"`
	CSPin      string `json:"cs_pin"`
	ReadyPin   string `json:"ready_pin"` // Empty selects polling
}

// Console is the complete console configuration
type Console struct {
	Transport   string        `json:"transport"`
	CaptureSize int           `json:"capture_size"` // Bytes for the capture transport
	Debug       bool          `json:"debug"`
	UART        UARTConfig    `json:"uart"`
	SPI         SPIConfig     `json:"spi"`
	Hexdump     HexdumpConfig `json:"hexdump"`
	Bridge      BridgeConfig  `json:"bridge"`
}
