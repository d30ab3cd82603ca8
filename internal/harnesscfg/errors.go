package harnesscfg

import "errors"

var errNotANumber = errors.New("not a number")
