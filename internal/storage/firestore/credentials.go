package firestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"

	"google.golang.org/api/option"

	"github.com/lfcamara/fundef-registry/internal/logging"
)

// resolveOptions walks the credential resolution chain: explicit file path,
// then the by-value blob (base64-wrapped or raw JSON), then ambient
// Application Default Credentials. A step that fails is logged and skipped,
// never fatal; when nothing resolves the client library falls back to ADC
// on its own.
func resolveOptions(ctx context.Context, cfg Config, logger logging.Logger) []option.ClientOption {
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err == nil {
			logger.Info(ctx, "firebase credentials loaded from file", "path", cfg.CredentialsFile)
			return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
		}
		logger.Warn(ctx, "firebase credentials file not readable, trying next source", "path", cfg.CredentialsFile)
	}

	if cfg.CredentialsJSON != "" {
		raw, err := decodeCredentialsBlob(cfg.CredentialsJSON)
		if err != nil {
			logger.Warn(ctx, "firebase credentials blob invalid, falling back to default credentials", "error", err)
		} else {
			logger.Info(ctx, "firebase credentials decoded from blob")
			return []option.ClientOption{option.WithCredentialsJSON(raw)}
		}
	}

	return nil
}

// decodeCredentialsBlob accepts either a base64-wrapped or a raw JSON
// service-account document, tried in that order.
func decodeCredentialsBlob(blob string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(blob); err == nil && json.Valid(decoded) {
		return decoded, nil
	}
	if json.Valid([]byte(blob)) {
		return []byte(blob), nil
	}
	return nil, errors.New("credentials blob is neither base64-wrapped nor raw JSON")
}
