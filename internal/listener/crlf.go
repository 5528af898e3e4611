package listener

import (
	"bytes"
	"io"
)

var (
	crlf = []byte("\r\n")
	cr   = []byte("\r")
	lf   = []byte("\n")
)

// lineConn presents a console connection with unix line endings. Telnet
// clients send \r\n and expect it back; ssh without a pty sends a bare \r.
type lineConn struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return n, err
	}
	data := bytes.ReplaceAll(p[:n], crlf, lf)
	data = bytes.ReplaceAll(data, cr, lf)
	return copy(p, data), err
}

// Write reports len(p) on success so callers never see the expanded size.
func (c *lineConn) Write(p []byte) (int, error) {
	if _, err := c.rw.Write(bytes.ReplaceAll(p, lf, crlf)); err != nil {
		return 0, err
	}
	return len(p), nil
}
