package adc

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ReadTextBits parses a text dump of bits, e.g. one written by `ltcdump -vvv`.
// Every '0' and '1' is a bit; lines starting with '#' and all other characters are ignored.
//
//	# frame 1
//	00000000000000000000000000000000000000000000000000000000000000000011111111111101
//	10000000 00000000 ...
func ReadTextBits(r io.Reader) ([]byte, error) {
	var result []byte

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(l, "#") {
			continue
		}
		for _, c := range l {
			switch c {
			case '0':
				result = append(result, 0)
			case '1':
				result = append(result, 1)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, errors.Wrap(err, "cannot read bits")
	}
	return result, nil
}

// WriteTextBits writes bits as '0' and '1' characters, one line per lineLength bits.
func WriteTextBits(w io.Writer, bits []byte, lineLength int) error {
	bw := bufio.NewWriter(w)
	for i, b := range bits {
		c := byte('0')
		if b != 0 {
			c = '1'
		}
		if err := bw.WriteByte(c); err != nil {
			return errors.Wrap(err, "cannot write bits")
		}
		if lineLength > 0 && (i+1)%lineLength == 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return errors.Wrap(err, "cannot write bits")
			}
		}
	}
	if lineLength > 0 && len(bits)%lineLength != 0 {
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "cannot write bits")
		}
	}
	return errors.Wrap(bw.Flush(), "cannot write bits")
}
