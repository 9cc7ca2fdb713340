package services

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
)

var errUnauthorized = apierr.Newf(http.StatusUnauthorized, "unauthorized", "authentication required")

func requestData(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errUnauthorized
	}
	return rd, nil
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func validEmail(email string) bool {
	if email == "" || !strings.Contains(email, "@") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// splitName turns "Ada Lovelace King" into ("Ada", "Lovelace King").
func splitName(full string) (string, string) {
	full = strings.Join(strings.Fields(full), " ")
	if full == "" {
		return "", ""
	}
	first, rest, _ := strings.Cut(full, " ")
	return first, rest
}
