package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well below clamd's default StreamMaxLength.
const chunkSize = 64 * 1024

// ClamAVScanner connects to clamd daemon for malware scanning
type ClamAVScanner struct {
	address string        // TCP address (host:port) or Unix socket path
	timeout time.Duration // Connection and scan timeout
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{
		address: address,
		timeout: timeout,
	}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Available checks if ClamAV daemon is reachable
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}

	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	return strings.HasPrefix(string(buf[:n]), "PONG")
}

// Ping reports an unreachable daemon as an error, for health checks.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	if !c.Available(ctx) {
		return fmt.Errorf("clamd at %s not responding", c.address)
	}
	return nil
}

// Scan streams data to clamd with the zINSTREAM command.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}

	conn, err := c.dial(ctx, c.timeout)
	if err != nil {
		result.Infected = true
		result.Error = fmt.Errorf("failed to connect to clamd: %w", err)
		return result
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		result.Infected = true
		result.Error = fmt.Errorf("failed to send command: %w", err)
		return result
	}

	size := make([]byte, 4)
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		binary.BigEndian.PutUint32(size, uint32(end-start))
		if _, err := conn.Write(size); err != nil {
			result.Infected = true
			result.Error = fmt.Errorf("failed to send chunk size: %w", err)
			return result
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			result.Infected = true
			result.Error = fmt.Errorf("failed to send file data: %w", err)
			return result
		}
	}

	// End-of-stream marker
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		result.Infected = true
		result.Error = fmt.Errorf("failed to send end marker: %w", err)
		return result
	}

	response, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil && len(response) == 0 {
		result.Infected = true
		result.Error = fmt.Errorf("failed to read response: %w", err)
		return result
	}

	return parseResponse(result, string(response))
}

// parseResponse interprets clamd replies:
// "stream: OK", "stream: Eicar-Signature FOUND", "stream: <msg> ERROR".
func parseResponse(result ScanResult, raw string) ScanResult {
	responseStr := strings.TrimRight(strings.TrimSpace(raw), "\x00")

	switch {
	case strings.HasSuffix(responseStr, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(responseStr, ":"); ok {
			result.ThreatName = strings.TrimSuffix(strings.TrimSpace(threat), " FOUND")
		}
	case strings.HasSuffix(responseStr, "OK"):
	default:
		result.Infected = true
		result.Error = fmt.Errorf("scan error: %s", responseStr)
	}
	return result
}
