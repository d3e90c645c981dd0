package central

import "errors"

var (
	// ErrConnectFailed indicates the handshake was never confirmed.
	ErrConnectFailed = errors.New("exceeded max number of attempts establishing connection")
	// ErrLost indicates the connection is lost and can't be recovered.
	ErrLost = errors.New("can't connect to peripheral")
	// ErrInvalidPeriod indicates a period index outside the table.
	ErrInvalidPeriod = errors.New("invalid period index")
)
