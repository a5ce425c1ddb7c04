package logofetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

// MIME types with fixed roles in the pipeline.
const (
	SVGMIMEType     = "image/svg+xml"
	DefaultMIMEType = "application/octet-stream"
)

// Page is a fetched HTML document.
type Page struct {
	// URL is the final URL after redirects. Relative references resolve against it.
	URL         string
	HTML        string
	ContentType string
}

// Asset is the raw binary content of a fetched candidate.
type Asset struct {
	URL         string
	Data        []byte
	ContentType string
}

// PageFetcher retrieves HTML documents.
type PageFetcher interface {
	// FetchPage returns the page at url. Non-textual responses are errors.
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// AssetFetcher retrieves binary assets.
type AssetFetcher interface {
	// FetchAsset returns the bytes and declared content type at url.
	// The url is always absolute; data: references never reach a fetcher.
	FetchAsset(ctx context.Context, url string) (*Asset, error)
}

// EnrichedAsset is a candidate after its bytes were retrieved and encoded.
type EnrichedAsset struct {
	ID          int        `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	MIMEType    string     `json:"mimeType"`
	DataURL     string     `json:"dataUrl"`
	FileName    string     `json:"fileName"`
	ByteSize    int        `json:"byteSize"`
	SourceType  SourceType `json:"sourceType"`
}

// Data decodes the asset's data URL back into raw bytes.
func (a *EnrichedAsset) Data() ([]byte, error) {
	return DecodeDataURL(a.DataURL)
}

// Result is the outcome of one logo lookup.
type Result struct {
	RequestedURL string           `json:"requestedUrl"`
	Count        int              `json:"count"`
	Logos        []*EnrichedAsset `json:"logos"`
}

// LogoService finds logos for a user-supplied URL.
type LogoService interface {
	// FindLogos normalizes rawURL, fetches the page and returns its logos.
	// Returns EINVALID for bad input, EUNAVAILABLE if the page cannot be
	// fetched and ENOTFOUND if no asset survives.
	FindLogos(ctx context.Context, rawURL string) (*Result, error)
}

// EncodeDataURL returns data as a base64 data URL with the given MIME type.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the bytes embedded in a data URL. Base64 payloads
// are decoded; other payloads are percent-decoded.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !IsDataURL(dataURL) {
		return nil, Errorf(EINVALID, "not a data URL")
	}
	header, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return nil, Errorf(EINVALID, "data URL has no payload separator")
	}

	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		payload = strings.Join(strings.Fields(payload), "")
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, WrapError(EINVALID, err, "invalid base64 payload in data URL")
		}
		return data, nil
	}

	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, WrapError(EINVALID, err, "invalid escape in data URL")
	}
	return []byte(s), nil
}

// mimeExtensions maps image MIME types to file extensions.
var mimeExtensions = map[string]string{
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"image/jpg":                "jpg",
	"image/gif":                "gif",
	"image/svg+xml":            "svg",
	"image/webp":               "webp",
	"image/ico":                "ico",
	"image/x-icon":             "ico",
	"image/vnd.microsoft.icon": "ico",
}

// ExtensionForMIME returns a file extension for mimeType. Unknown types fall
// back to the MIME subtype, then to "bin".
func ExtensionForMIME(mimeType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if mediaType == "" {
		return "bin"
	}
	if ext, ok := mimeExtensions[mediaType]; ok {
		return ext
	}
	if i := strings.LastIndex(mediaType, "/"); i >= 0 {
		mediaType = mediaType[i+1:]
	}
	if mediaType == "" {
		return "bin"
	}
	return mediaType
}

// FileNameFromURL derives a download name from the last path segment of
// rawURL. URLs without a usable segment get "logo-<index>.<ext>".
func FileNameFromURL(rawURL, mimeType string, index int) string {
	if u, err := url.Parse(rawURL); err == nil {
		segments := strings.Split(u.EscapedPath(), "/")
		for i := len(segments) - 1; i >= 0; i-- {
			seg := segments[i]
			if seg == "" {
				continue
			}
			if name, err := url.PathUnescape(seg); err == nil && !strings.ContainsAny(name, `/\`) {
				return name
			}
			return seg
		}
	}
	return fmt.Sprintf("logo-%d.%s", index, ExtensionForMIME(mimeType))
}
