package munit

import (
	"fmt"
	"strings"

	"github.com/core-tools/minit/pkg/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Encoding resolves the charset label used to decode the command output.
// It returns a nil encoding when no charset is set.
func (o ExecOptions) Encoding() (encoding.Encoding, error) {
	if o.Charset == nil || strings.TrimSpace(*o.Charset) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(*o.Charset))
	if err != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("unknown charset: %q", *o.Charset),
			err,
		).WithField("charset")
	}
	return enc, nil
}
