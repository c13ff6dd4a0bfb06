package smartcube

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

var (
	ErrNotConnected     = errors.New("smartcube: not connected")
	ErrAlreadyConnected = errors.New("smartcube: already connected")
	ErrDeviceNotFound   = errors.New("smartcube: device not found")
	ErrServiceMissing   = errors.New("smartcube: GoCube service not found")
)

// DefaultConnectTimeout bounds the scan for a known address.
const DefaultConnectTimeout = 10 * time.Second

var (
	serviceUUID = mustUUID(ServiceUUID)
	txCharUUID  = mustUUID(TxCharUUID)
	rxCharUUID  = mustUUID(RxCharUUID)
)

func mustUUID(s string) bluetooth.UUID {
	raw, err := hex.DecodeString(strings.ReplaceAll(s, "-", ""))
	if err != nil || len(raw) != 16 {
		panic("smartcube: bad uuid " + s)
	}
	var b [16]byte
	copy(b[:], raw)
	return bluetooth.NewUUID(b)
}

// Device is a discovered cube.
type Device struct {
	Name    string
	Address string
	RSSI    int16

	addr bluetooth.Address
}

// Client is a BLE connection to one GoCube.
type Client struct {
	adapter *bluetooth.Adapter

	mu        sync.RWMutex
	device    bluetooth.Device
	rx        bluetooth.DeviceCharacteristic
	connected bool
	name      string
	address   string

	onFrame func(Frame)
	onError func(error)
}

// NewClient enables the default adapter.
func NewClient() (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter}, nil
}

// OnFrame sets the callback for decoded notifications.
func (c *Client) OnFrame(cb func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = cb
}

// OnError sets the callback for notifications that failed to parse.
func (c *Client) OnError(cb func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = cb
}

// Scan lists GoCubes advertising within timeout.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		devices []Device
		seen    = make(map[string]bool)
	)
	done := make(chan error, 1)
	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			addr := r.Address.String()
			mu.Lock()
			defer mu.Unlock()
			if seen[addr] {
				return
			}
			seen[addr] = true
			if name := r.LocalName(); strings.HasPrefix(strings.ToLower(name), "gocube") {
				devices = append(devices, Device{Name: name, Address: addr, RSSI: r.RSSI, addr: r.Address})
			}
		})
	}()

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	c.adapter.StopScan()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return devices, nil
}

// ConnectAddress scans for the cube at address and connects to it.
func (c *Client) ConnectAddress(ctx context.Context, address string) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	found := make(chan Device, 1)
	go c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		if r.Address.String() == address {
			select {
			case found <- Device{Name: r.LocalName(), Address: address, RSSI: r.RSSI, addr: r.Address}:
			default:
			}
		}
	})

	var d Device
	select {
	case d = <-found:
	case <-time.After(DefaultConnectTimeout):
		c.adapter.StopScan()
		return ErrDeviceNotFound
	case <-ctx.Done():
		c.adapter.StopScan()
		return ctx.Err()
	}
	c.adapter.StopScan()
	return c.Connect(d)
}

// Connect connects to a scanned device and subscribes to its notifications.
func (c *Client) Connect(d Device) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(d.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	rx, err := c.subscribe(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	c.mu.Lock()
	c.device = device
	c.rx = rx
	c.connected = true
	c.name = d.Name
	c.address = d.Address
	c.mu.Unlock()

	return c.Send(CmdRequestBattery)
}

func (c *Client) subscribe(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var rx bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return rx, ErrServiceMissing
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var tx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			rx = ch
		}
	}

	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		return rx, fmt.Errorf("failed to enable notifications: %w", err)
	}
	return rx, nil
}

// Disconnect drops the connection.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.device.Disconnect()
	c.connected = false
	c.name = ""
	c.address = ""
	return err
}

// IsConnected reports whether a cube is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected cube's advertised name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// DeviceAddress returns the connected cube's address.
func (c *Client) DeviceAddress() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

// Send writes a command to the cube.
func (c *Client) Send(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}

	data := EncodeCommand(cmd)
	// The RX characteristic only accepts writes without response.
	if _, err := c.rx.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("failed to send command 0x%02X: %w", cmd, err)
	}
	return nil
}

func (c *Client) handleNotification(data []byte) {
	c.mu.RLock()
	onFrame, onError := c.onFrame, c.onError
	c.mu.RUnlock()

	f, err := ParseFrame(data)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onFrame != nil {
		onFrame(f)
	}
}
