package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

// Format is an export representation understood by the records service.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatXML      Format = "xml"
	FormatPDF      Format = "pdf"
)

// Valid reports whether f names a supported export format.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatXML, FormatPDF:
		return true
	}
	return false
}

// MIME returns the content type the export is served with.
func (f Format) MIME() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	case FormatXML:
		return "application/xml"
	case FormatPDF:
		return "application/octet-stream"
	default:
		return "text/plain"
	}
}

// Binary reports whether the export payload is opaque bytes rather than text.
func (f Format) Binary() bool {
	return f == FormatPDF
}

// Export is a downloadable rendering of the saved-record set. The records
// service is the source of truth for the encoding; nothing is re-serialized
// on this side.
type Export struct {
	Format   Format
	MIME     string
	Binary   bool
	Filename string
	Data     []byte
}

// Export requests the saved-record set pre-rendered in the given format.
func (c *Client) Export(ctx context.Context, format Format) (Export, error) {
	if !format.Valid() {
		return Export{}, fmt.Errorf("unsupported export format %q", format)
	}

	values := url.Values{}
	values.Set("format", string(format))

	resp, err := httpx.Do(ctx, c.cfg, c.circuit, func() (*http.Request, error) {
		u := fmt.Sprintf("%s/export?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return Export{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Export{}, err
	}

	return Export{
		Format:   format,
		MIME:     format.MIME(),
		Binary:   format.Binary(),
		Filename: "export." + string(format),
		Data:     data,
	}, nil
}
