package terminal

import (
	"bufio"
	"io"
	"strings"
)

// InputReader reads user messages line by line. A line ending in a
// backslash continues onto the next line.
type InputReader struct {
	reader *bufio.Reader
}

// NewInputReader wraps r
func NewInputReader(r io.Reader) *InputReader {
	return &InputReader{reader: bufio.NewReader(r)}
}

// ReadMessage reads one (possibly multi-line) message. It returns io.EOF
// once the input is exhausted and nothing was read.
func (r *InputReader) ReadMessage() (string, error) {
	var lines []string
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if len(lines) > 0 && err == io.EOF {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.HasSuffix(line, "\\") {
			lines = append(lines, strings.TrimSuffix(line, "\\"))
			if err == io.EOF {
				return strings.Join(lines, "\n"), nil
			}
			continue
		}

		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}
