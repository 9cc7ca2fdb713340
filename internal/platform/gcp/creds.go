package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// Credential sources, in the order manualStorageCredentials checks them.
const (
	CredentialSourceConfig = "MANUAL_GCS_CREDENTIALS"
	CredentialSourceJSON   = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	CredentialSourceFile   = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialSourceADC    = "application_default"
)

// manualStorageCredentials resolves the credentials for the manual bucket. The
// service-specific value wins over the process-wide Google variables, so the
// manual store can run under its own service account. Values may be inline JSON
// or a file path. An empty option list means application default credentials.
func manualStorageCredentials(configured string) ([]option.ClientOption, string) {
	candidates := []struct {
		source string
		value  string
	}{
		{CredentialSourceConfig, configured},
		{CredentialSourceJSON, os.Getenv(CredentialSourceJSON)},
		{CredentialSourceFile, os.Getenv(CredentialSourceFile)},
	}
	for _, c := range candidates {
		creds := strings.TrimSpace(c.value)
		if creds == "" {
			continue
		}
		if strings.HasPrefix(creds, "{") {
			return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}, c.source
		}
		return []option.ClientOption{option.WithCredentialsFile(creds)}, c.source
	}
	return nil, CredentialSourceADC
}
