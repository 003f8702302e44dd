//go:build rp2040

package pio

// PIO UART transmitter using tinygo-org/pio package

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var ErrNoStateMachine = errors.New("no free PIO state machine")

// buildUARTTxProgram creates the 8N1 transmit program using AssemblerV0.
// Each bit lasts cyclesPerBit cycles.
func buildUARTTxProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Out(rp2pio.OutDestX, 8).Encode(),             // 1: out x, 8 (bit count - 1)
		asm.Set(rp2pio.SetDestPins, 0).Delay(7).Encode(), // 2: set pins, 0 [7] (start bit)
		// bitloop:
		asm.Out(rp2pio.OutDestPins, 1).Delay(6).Encode(), // 3: out pins, 1 [6]
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(),         // 4: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 1).Delay(6).Encode(), // 5: set pins, 1 [6] (stop bit)
		// .wrap
	}
}

const uartTxOrigin = 0 // Load at offset 0 for correct jump addresses

// UARTTx is a polled UART transmitter running on a PIO state machine. It
// implements core.UARTDriver.
type UARTTx struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	tx     machine.Pin
	pioNum uint8
	smNum  uint8
}

// NewUARTTx claims a free PIO state machine for a transmitter
func NewUARTTx() (*UARTTx, error) {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil, ErrNoStateMachine
	}

	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &UARTTx{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pioNum: pioNum,
		smNum:  smNum,
	}, nil
}

// Init loads the program and starts transmitting on tx at baud
func (u *UARTTx) Init(tx machine.Pin, baud uint32) error {
	u.tx = tx

	// Claim the state machine first
	u.sm.TryClaim()

	program := buildUARTTxProgram()
	offset, err := u.pio.AddProgram(program, uartTxOrigin)
	if err != nil {
		releasePIO(u.pioNum, u.smNum)
		return err
	}

	u.tx.Configure(machine.PinConfig{Mode: u.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()

	// Start/stop bits come from SET, data bits from OUT, both on tx
	cfg.SetSetPins(u.tx, 1)
	cfg.SetOutPins(u.tx, 1)

	// Shift right (LSB first), explicit PULL, 32-bit threshold
	cfg.SetOutShift(true, false, 32)

	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	whole, frac := clockDivider(machine.CPUFrequency(), baud)
	cfg.SetClkDivIntFrac(whole, frac)

	// Initialize state machine before touching pin directions
	u.sm.Init(offset, cfg)

	// Idle line is high
	u.sm.SetPinsConsecutive(u.tx, 1, true)
	u.sm.SetPindirsConsecutive(u.tx, 1, true)

	u.sm.SetEnabled(true)

	return nil
}

// SendByte queues b, waiting for FIFO space
func (u *UARTTx) SendByte(b byte) error {
	for u.sm.IsTxFIFOFull() {
		// Busy wait - at most one character time
	}
	u.sm.TxPut(txWord(b))
	return nil
}
