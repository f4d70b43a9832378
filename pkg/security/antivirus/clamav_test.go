package antivirus

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers one INSTREAM session with reply once the stream ends.
func fakeClamd(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		cmd := make([]byte, len("zINSTREAM\x00"))
		if _, err := io.ReadFull(conn, cmd); err != nil {
			return
		}
		var payload bytes.Buffer
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(conn, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			if _, err := io.CopyN(&payload, conn, int64(n)); err != nil {
				return
			}
		}
		received <- payload.Bytes()
		_, _ = conn.Write([]byte(reply + "\x00"))
	}()
	return ln.Addr().String(), received
}

func TestClamAVScanClean(t *testing.T) {
	addr, received := fakeClamd(t, "stream: OK")
	scanner := NewClamAVScanner(addr, 2*time.Second)

	data := bytes.Repeat([]byte("a"), chunkSize+10)
	res := scanner.Scan(context.Background(), "cv.pdf", data)

	require.NoError(t, res.Error)
	assert.False(t, res.Infected)
	assert.Equal(t, data, <-received)
}

func TestClamAVScanInfected(t *testing.T) {
	addr, _ := fakeClamd(t, "stream: Eicar-Signature FOUND")
	scanner := NewClamAVScanner(addr, 2*time.Second)

	res := scanner.Scan(context.Background(), "cv.pdf", []byte("X5O!P%@AP"))

	assert.True(t, res.Infected)
	assert.Equal(t, "Eicar-Signature", res.ThreatName)
}

func TestClamAVUnreachableFailsClosed(t *testing.T) {
	scanner := NewClamAVScanner("127.0.0.1:1", 200*time.Millisecond)

	res := scanner.Scan(context.Background(), "cv.pdf", []byte("data"))

	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
	assert.False(t, scanner.Available(context.Background()))
}

func TestParseResponse(t *testing.T) {
	res := parseResponse(ScanResult{}, "stream: Size limit exceeded ERROR")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)

	res = parseResponse(ScanResult{}, "stream: OK\x00")
	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)
}

func TestNoOpScanner(t *testing.T) {
	s := NewNoOpScanner()
	assert.False(t, s.Scan(context.Background(), "x", nil).Infected)
	assert.True(t, s.Available(context.Background()))
	assert.Equal(t, "noop", s.Name())
}
