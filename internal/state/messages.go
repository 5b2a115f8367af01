package state

import (
	"errors"
	"fmt"

	"github.com/five82/postboard/internal/netclient"
)

// User-facing messages that are not derived from a client error.
const (
	MsgNoConnection = "No Internet Connection"
	MsgNoPosts      = "No posts available"
)

// MessageFor maps a client failure to the text shown to the user.
func MessageFor(err error) string {
	var ne netclient.NetworkError
	if !errors.As(err, &ne) {
		return "Invalid response from server"
	}
	switch ne.Kind {
	case netclient.NoNetwork:
		return MsgNoConnection
	case netclient.InvalidURL:
		return "Invalid URL"
	case netclient.StatusCode:
		return fmt.Sprintf("Received error code: %d", ne.Code)
	case netclient.NoData:
		return "No data received"
	case netclient.DecodingError:
		return "Error decoding data"
	default:
		return "Invalid response from server"
	}
}
