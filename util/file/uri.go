package file

import (
	"io"
	"time"

	"tachikoma_config/util/network"

	"github.com/cockroachdb/errors"
	"github.com/utahta/go-openuri"
)

// ReadURIText returns content of <uri> which can be a local file path or URL.
//
// <timeout> is a time limit for HTTP requests.
func ReadURIText(uri string, timeout time.Duration) ReadResult[string] {
	rc, err := openuri.Open(uri, openuri.WithHTTPClient(network.NewHttpClient(timeout)))
	if err != nil {
		return fail[string](errors.Wrap(err, "Open URI"))
	}
	defer rc.Close()

	bytes, err := io.ReadAll(rc)
	if err != nil {
		return fail[string](errors.Wrap(err, "Read URI"))
	}
	return ok(string(bytes))
}
