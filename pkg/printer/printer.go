package printer

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Printer is the transport for sending raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends raw ESC/POS bytes to the printer.
	Print(ctx context.Context, data []byte) error
	// IsConnected reports whether the printer accepts connections right now.
	IsConnected(ctx context.Context) (bool, error)
	// Close releases the printer connection/handle.
	Close() error
}

// Connector creates the transport for a "host:port" address. It does not
// check liveness; the Manager does that.
type Connector interface {
	Connect(address string) Printer
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(address string) Printer

func (f ConnectorFunc) Connect(address string) Printer {
	return f(address)
}

// --- Network Printer (dials TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP for each job.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string, dialTimeout, writeTimeout time.Duration) Printer {
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &networkPrinter{
		address:      address,
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
	}
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))

	_, err = conn.Write(data)
	if err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) (bool, error) {
	conn, err := p.dial(ctx)
	if err != nil {
		return false, err
	}
	conn.Close()
	return true, nil
}

func (p *networkPrinter) Close() error {
	return nil // Network printer opens/closes per print job
}

// NetworkConnector builds TCP printers.
type NetworkConnector struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c NetworkConnector) Connect(address string) Printer {
	return NewNetworkPrinter(address, c.DialTimeout, c.WriteTimeout)
}

// --- Null Printer (accepts and discards every job, for dry runs) ---

type nullPrinter struct{}

// NewNullPrinter creates a printer that is always reachable and drops output.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(ctx context.Context, data []byte) error {
	return nil
}

func (p *nullPrinter) IsConnected(ctx context.Context) (bool, error) {
	return true, nil
}

func (p *nullPrinter) Close() error {
	return nil
}

// NewConnectorFromConfig creates the appropriate Connector based on driver.
//
//	driver: "network" or "none"
func NewConnectorFromConfig(driver string, dialTimeout, writeTimeout time.Duration) (Connector, error) {
	switch driver {
	case "network", "":
		return NetworkConnector{DialTimeout: dialTimeout, WriteTimeout: writeTimeout}, nil
	case "none":
		return ConnectorFunc(func(string) Printer { return NewNullPrinter() }), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer driver %q (use network or none)", driver)
	}
}
