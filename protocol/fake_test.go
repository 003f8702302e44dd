package protocol

import (
	"errors"

	"fwconsole/core"
)

var errFake = errors.New("fake driver fault")

type flashWrite struct {
	offset uint32
	data   []byte
}

// fakeDevice is an in-memory SPI device read buffer.
type fakeDevice struct {
	mem    []byte
	writes []flashWrite

	// lastRead is returned by LastReadAddress until the script runs out.
	lastRead       uint32
	lastReadScript []uint32
	onPoll         func() uint32
	polls          int
	pollErr        error

	failWrites int

	csScript []bool
	csErr    error
	csReads  int
}

func newFakeDevice(capacity uint32) *fakeDevice {
	return &fakeDevice{mem: make([]byte, capacity)}
}

func (d *fakeDevice) WriteFlashBuffer(offset uint32, data []byte) error {
	if d.failWrites > 0 {
		d.failWrites--
		return errFake
	}
	if int(offset)+len(data) > len(d.mem) {
		panic("write past end of read buffer")
	}
	copy(d.mem[offset:], data)
	d.writes = append(d.writes, flashWrite{offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func (d *fakeDevice) LastReadAddress() (uint32, error) {
	d.polls++
	if d.pollErr != nil {
		return 0, d.pollErr
	}
	if d.onPoll != nil {
		return d.onPoll(), nil
	}
	if len(d.lastReadScript) > 0 {
		v := d.lastReadScript[0]
		d.lastReadScript = d.lastReadScript[1:]
		return v, nil
	}
	return d.lastRead, nil
}

func (d *fakeDevice) ChipSelect() (bool, error) {
	if d.csErr != nil {
		return false, d.csErr
	}
	if d.csReads >= len(d.csScript) {
		panic("chip select script exhausted")
	}
	v := d.csScript[d.csReads]
	d.csReads++
	return v, nil
}

type pinWrite struct {
	pin   core.GPIOPin
	value bool
}

// MockGPIODriver records pin writes.
type MockGPIODriver struct {
	writes []pinWrite
}

func (m *MockGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	m.writes = append(m.writes, pinWrite{pin, value})
	return nil
}

func (m *MockGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	for i := len(m.writes) - 1; i >= 0; i-- {
		if m.writes[i].pin == pin {
			return m.writes[i].value, nil
		}
	}
	return false, nil
}
