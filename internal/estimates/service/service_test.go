package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backoffice_backend/internal/estimates/repository"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

func draftParams(org uuid.UUID) CreateDraftParams {
	return CreateDraftParams{
		OrganizationID: org,
		CreatedByID:    uuid.New(),
		Lines: []DraftLine{
			{Description: "Drain Cleaning", UnitPriceCents: 17500, Quantity: 2, SourceKind: "offering", SourceID: uuid.New()},
			{Description: "Inspection (Drain Care)", UnitPriceCents: 10000, Quantity: 1, SourceKind: "offering", SourceID: uuid.New()},
		},
		DiscountPercent:     decimal.NewFromInt(10),
		TaxRate:             decimal.RequireFromString("8.25"),
		IncludeTax:          true,
		SubtotalCents:       45000,
		DiscountAmountCents: 4500,
		TaxAmountCents:      3341,
		TotalCents:          43841,
	}
}

func TestCreateDraftNumbersPerOrganization(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemory(), logger.Discard())
	orgA, orgB := uuid.New(), uuid.New()
	year := time.Now().Year()

	first, err := svc.CreateDraft(ctx, draftParams(orgA))
	require.NoError(t, err)
	second, err := svc.CreateDraft(ctx, draftParams(orgA))
	require.NoError(t, err)
	other, err := svc.CreateDraft(ctx, draftParams(orgB))
	require.NoError(t, err)

	require.Equal(t, fmt.Sprintf("EST-%d-0001", year), first.EstimateNumber)
	require.Equal(t, fmt.Sprintf("EST-%d-0002", year), second.EstimateNumber)
	require.Equal(t, fmt.Sprintf("EST-%d-0001", year), other.EstimateNumber)
	require.Equal(t, repository.StatusDraft, first.Status)
}

func TestGetByIDReturnsLinesInOrder(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemory(), logger.Discard())
	org := uuid.New()

	created, err := svc.CreateDraft(ctx, draftParams(org))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, org, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(43841), got.TotalCents)
	require.Len(t, got.Items, 2)
	require.Equal(t, "Drain Cleaning", got.Items[0].Description)
	require.Equal(t, int64(35000), got.Items[0].LineTotalCents)

	_, err = svc.GetByID(ctx, uuid.New(), created.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateDraftRequiresLines(t *testing.T) {
	svc := New(repository.NewMemory(), logger.Discard())
	params := draftParams(uuid.New())
	params.Lines = nil

	_, err := svc.CreateDraft(context.Background(), params)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
