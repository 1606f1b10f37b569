package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

func TestGenerateReportSheet_ProducePDF(t *testing.T) {
	owner := int64(12345678)
	desc := strings.Repeat("Derrame de aceite hidráulico en la correa transportadora. ", 6)
	detail := "reviewed by ops"
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	report := &entity.ReportView{
		Report: entity.Report{
			ID: 42, Title: "Derrame en correa 3", Description: &desc, ReportDate: now,
			ClientUUID: "6f1c2a9e-9a43-4b8a-9d9e-1f0f7b3c2d10", CreatedAt: now, UpdatedAt: now,
			OwnerRUT: &owner, SeverityID: 2, AreaID: 3, StateID: 2,
		},
		AreaName: "Planta concentradora", SeverityName: "Media", StateName: "En revisión", OwnerName: "Luis Soto",
	}
	trail := []*entity.AuditEntry{
		{ID: 1, ReportID: 42, StateID: 2, StateName: "En revisión", AdminRUT: 1, AdminName: "Carla Muñoz", Detail: &detail, CreatedAt: now},
	}

	out, err := NewReportSheetGenerator().GenerateReportSheet(context.Background(), report, trail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateReportSheet_ReporteNulo(t *testing.T) {
	_, err := NewReportSheetGenerator().GenerateReportSheet(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestFormatRUT(t *testing.T) {
	assert.Equal(t, "123", formatRUT(123))
	assert.Equal(t, "12.345.678", formatRUT(12345678))
	assert.Equal(t, "123.456.789", formatRUT(123456789))
}

func TestWrap_RespetaRunas(t *testing.T) {
	parts := wrap("ááááá", 2)
	assert.Equal(t, []string{"áá", "áá", "á"}, parts)
	assert.Empty(t, wrap("", 10))
}
