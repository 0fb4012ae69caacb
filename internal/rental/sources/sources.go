// Package sources provides the dataset sources a rental.Service can load from.
package sources

import (
	"net/http"

	"github.com/i474232898/bikeshare-dashboard/internal/common"
	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

// New picks an HTTP source for http(s) locations and a file source otherwise.
func New(location string, client *http.Client) rental.Source {
	if common.HasAnyPrefix(location, "http://", "https://") {
		return NewHTTPSource(client, location)
	}
	return NewFileSource(location)
}
