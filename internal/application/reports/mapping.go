package reports

import (
	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toReportResponse(v *entity.ReportView) dto.ReportResponse {
	return dto.ReportResponse{
		IDReporte:        v.ID,
		Titulo:           v.Title,
		Descripcion:      v.Description,
		FechaReporte:     v.ReportDate.Format(dateLayout),
		UUIDCliente:      v.ClientUUID,
		HoraCreado:       v.CreatedAt,
		HoraSincronizado: v.SyncedAt,
		HoraActualizado:  v.UpdatedAt,
		RUT:              v.OwnerRUT,
		NombreTrabajador: v.OwnerName,
		IDSeveridad:      v.SeverityID,
		Severidad:        v.SeverityName,
		IDArea:           v.AreaID,
		Area:             v.AreaName,
		IDEstadoActual:   v.StateID,
		Estado:           v.StateName,
	}
}

func toReportList(views []*entity.ReportView) *dto.ReportListResponse {
	items := make([]dto.ReportResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toReportResponse(v))
	}
	return &dto.ReportListResponse{Items: items, Total: len(items)}
}

func toAuditEntryResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		IDBitacora:          e.ID,
		IDReporte:           e.ReportID,
		IDEstadoActual:      e.StateID,
		Estado:              e.StateName,
		RUT:                 e.AdminRUT,
		NombreAdministrador: e.AdminName,
		Detalle:             e.Detail,
		Fecha:               e.CreatedAt,
	}
}
