package adc

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is the front end firmware's UART rate. Sample lines at
// 8 kHz do not fit in 115200 baud, so the firmware runs the link faster
// (USB CDC ports ignore the setting anyway).
const DefaultBaudRate = 921600

// SerialDevice is the real front end attached over a serial port. The
// firmware streams one decimal reading per line at the sample rate and
// accepts "P<0-255>" commands to set the PWM output.
type SerialDevice struct {
	port serial.Port
	r    *bufio.Reader
}

// OpenSerial opens the front end on the given port. A zero baud rate uses
// DefaultBaudRate.
func OpenSerial(portName string, baud int) (*SerialDevice, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &SerialDevice{port: port, r: bufio.NewReaderSize(port, 4096)}, nil
}

// ReadSample reads the next sample line from the stream.
func (d *SerialDevice) ReadSample() (int, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("read sample: %w", err)
	}
	return parseSample(line)
}

// WriteLevel sends a PWM level command.
func (d *SerialDevice) WriteLevel(level uint8) error {
	if _, err := fmt.Fprintf(d.port, "P%d\n", level); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	return nil
}

// Close closes the serial port.
func (d *SerialDevice) Close() error {
	if err := d.port.Close(); err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}
	return nil
}

// Ports returns the serial port names present on the system.
func Ports() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return names, nil
}

// parseSample parses one sample line. Out-of-range values are rejected so a
// corrupted line cannot masquerade as a reading.
func parseSample(line string) (int, error) {
	s := strings.TrimSpace(line)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse sample %q: %w", s, err)
	}
	if v < 0 || v > MaxSample {
		return 0, fmt.Errorf("sample %d out of range 0..%d", v, MaxSample)
	}
	return v, nil
}
