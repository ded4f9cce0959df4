// Package harparser recovers Revolut session credentials from a browser network
// capture (HAR file). No authentication flow is automated: the user records a session
// in the browser and the first complete transactions request found in it is reused.
package harparser

import (
	"fmt"
	"strings"

	"fjacquet/revol-ver/internal/fileutils"
	"fjacquet/revol-ver/internal/logging"
)

// TransactionsEndpoint is the URL fragment identifying the transactions listing request.
const TransactionsEndpoint = "current/transactions/last"

const (
	headerCookie   = "cookie"
	headerDeviceID = "x-device-id"
	queryPocketID  = "internalPocketId"
)

// Document is the subset of the HAR 1.2 schema needed for extraction.
type Document struct {
	Log struct {
		Entries []Entry `json:"entries"`
	} `json:"log"`
}

// Entry is a single captured request/response pair.
type Entry struct {
	Request Request `json:"request"`
}

// Request is the request half of a HAR entry.
type Request struct {
	URL         string      `json:"url"`
	Headers     []NameValue `json:"headers"`
	QueryString []NameValue `json:"queryString"`
}

// NameValue is the HAR representation of headers and query parameters.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Credentials are the three values needed to call the transactions API.
type Credentials struct {
	Cookie   string
	DeviceID string
	PocketID string
}

// Complete reports whether all three values are present.
func (c Credentials) Complete() bool {
	return c.Cookie != "" && c.DeviceID != "" && c.PocketID != ""
}

// Redacted returns a copy safe to print or log.
func (c Credentials) Redacted() Credentials {
	return Credentials{
		Cookie:   Redact(c.Cookie),
		DeviceID: Redact(c.DeviceID),
		PocketID: Redact(c.PocketID),
	}
}

// Redact keeps the first four characters of a secret.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}

// Extractor scans HAR documents for transactions API credentials.
type Extractor struct {
	logger logging.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Extractor{logger: logger}
}

// Extract returns the credentials of the first transactions request carrying
// a cookie, a device id and a pocket id. Values are never combined across entries.
// found is false when no such entry exists; that is not an error.
func (e *Extractor) Extract(doc *Document) (Credentials, bool) {
	if doc != nil {
		for _, entry := range doc.Log.Entries {
			if !strings.Contains(entry.Request.URL, TransactionsEndpoint) {
				continue
			}
			creds := credentialsFromRequest(entry.Request)
			if creds.Complete() {
				redacted := creds.Redacted()
				e.logger.Info("Authentication data parsed successfully")
				e.logger.Debug("Authentication data",
					logging.F("cookie", redacted.Cookie),
					logging.F("device_id", redacted.DeviceID),
					logging.F("pocket_id", redacted.PocketID))
				return creds, true
			}
		}
	}
	e.logger.Error("Could not find authentication data in HAR file")
	return Credentials{}, false
}

// ExtractFile reads and scans the HAR file at path. The error is only set
// when the file cannot be read or decoded.
func (e *Extractor) ExtractFile(path string) (Credentials, bool, error) {
	e.logger.Info("Reading HAR trace", logging.F(logging.FieldFile, path))

	var doc Document
	if err := fileutils.ReadJSONFile(path, &doc); err != nil {
		return Credentials{}, false, fmt.Errorf("failed to read HAR trace: %w", err)
	}
	creds, found := e.Extract(&doc)
	return creds, found, nil
}

func credentialsFromRequest(req Request) Credentials {
	var creds Credentials
	for _, header := range req.Headers {
		switch {
		case strings.EqualFold(header.Name, headerCookie):
			creds.Cookie = header.Value
		case strings.EqualFold(header.Name, headerDeviceID):
			creds.DeviceID = header.Value
		}
	}
	for _, param := range req.QueryString {
		if param.Name == queryPocketID {
			creds.PocketID = param.Value
		}
	}
	return creds
}
