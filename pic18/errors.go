package pic18

import "errors"

var ErrZeroLength = errors.New("read length must be positive")
var ErrShortData = errors.New("need at least two data bytes")
var ErrOddData = errors.New("data length must be even")
var ErrPollTimeout = errors.New("write did not complete in time")
