package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAgent(tb testing.TB, ctx context.Context, tx *gorm.DB, title, toolName string, active bool) *types.Agent {
	tb.Helper()
	a := &types.Agent{
		ID:       uuid.New(),
		Title:    title,
		ToolName: toolName,
		IsActive: active,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed agent: %v", err)
	}
	return a
}

func SeedLicenseRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, org, email string) *types.LicenseRequest {
	tb.Helper()
	lr := &types.LicenseRequest{
		ID:               uuid.New(),
		OrganizationName: org,
		RequesterName:    "Requester",
		Email:            email,
		Status:           types.LicenseStatusPending,
	}
	if err := tx.WithContext(ctx).Create(lr).Error; err != nil {
		tb.Fatalf("seed license request: %v", err)
	}
	return lr
}
