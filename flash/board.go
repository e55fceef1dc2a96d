package flash

import (
	"time"

	"github.com/piotrjaromin/gpio"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var DefaultBaud = 115200
var DefaultTTY = "/dev/ttyACM0"
var DefaultCapacity uint32 = 1024 * 1024
var DefaultReadTimeout = 5 * time.Second
var DefaultEnumerationDelay = 2 * time.Second

// Config defines configuration for communicating with and programming the
// board
type Config struct {
	TTY      string
	BaudRate int

	// ReadTimeout bounds every single response read
	ReadTimeout time.Duration

	// Capacity is the addressable size of the flash chip
	Capacity uint32

	// PowerGPIO is an optional sysfs GPIO driving the board's supply. When set
	// the board is power cycled before the serial port is opened.
	PowerGPIO        int
	EnumerationDelay time.Duration

	Logger   logrus.Ext1FieldLogger
	Progress ProgressFunc
}

// Board represents an iceFUN board reachable over its USB serial port. It owns
// the transport for the whole programming session.
type Board struct {
	config *Config
	log    logrus.Ext1FieldLogger

	pinPower *gpio.Pin

	port    Transport
	closer  func() error
	flashID [3]byte
	version byte
}

// NewBoard will create a new reference to a board
func NewBoard(c *Config) *Board {
	if c == nil {
		c = &Config{}
	}
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.EnumerationDelay <= 0 {
		c.EnumerationDelay = DefaultEnumerationDelay
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}

	return &Board{
		config: c,
		log:    c.Logger,
	}
}

// TTY will return the TTY that will be used
func (b *Board) TTY() string {
	if b.config.TTY != "" {
		return b.config.TTY
	}
	return DefaultTTY
}

// BaudRate will return the baud rate used to connect to the TTY
func (b *Board) BaudRate() int {
	if b.config.BaudRate > 0 {
		return b.config.BaudRate
	}
	return DefaultBaud
}

// Capacity will return the flash size in bytes
func (b *Board) Capacity() uint32 {
	return b.config.Capacity
}

// FlashID will return the three ID bytes reported by the last reset
func (b *Board) FlashID() [3]byte {
	return b.flashID
}

// Version will return the firmware version reported by the last version check
func (b *Board) Version() byte {
	return b.version
}

// powerCycle will drop and restore the board supply when a power pin is
// configured, then wait for the USB device to come back
func (b *Board) powerCycle() error {
	if b.config.PowerGPIO <= 0 {
		return nil
	}

	if b.pinPower == nil {
		pin, err := gpio.NewOutput(uint(b.config.PowerGPIO), true)
		if err != nil {
			return errors.Wrap(err, "could not setup power pin")
		}
		b.pinPower = &pin
	}

	b.log.Debugf("power cycling board on gpio %d", b.config.PowerGPIO)
	b.pinPower.Low()
	time.Sleep(100 * time.Millisecond)
	b.pinPower.High()
	time.Sleep(b.config.EnumerationDelay)

	return nil
}

func (b *Board) releasePins() {
	if b.pinPower != nil {
		b.pinPower.Cleanup()
		b.pinPower = nil
	}
}
