package dto

// CreateWorkerRequest entrada para crear un trabajador (solo admin).
// La contraseña inicial no viaja: son los últimos 4 dígitos del RUT.
type CreateWorkerRequest struct {
	RUT                int64  `json:"rut" validate:"required,gt=0"`
	Nombre             string `json:"nombre" validate:"required,min=1,max=60"`
	Apellido1          string `json:"apellido_1" validate:"required,min=1,max=80"`
	Apellido2          string `json:"apellido_2" validate:"omitempty,max=80"`
	IDCargo            int    `json:"id_cargo" validate:"required,gt=0"`
	IDEstadoTrabajador int    `json:"id_estado_trabajador" validate:"omitempty,gt=0"`
}

// UpdateWorkerStatusRequest entrada para cambiar el estado laboral de un trabajador.
type UpdateWorkerStatusRequest struct {
	IDEstadoTrabajador int `json:"id_estado_trabajador" validate:"required,gt=0"`
}

// WorkerResponse salida de un trabajador (sin hash de contraseña).
type WorkerResponse struct {
	RUT                int64  `json:"rut"`
	Nombre             string `json:"nombre"`
	Apellido1          string `json:"apellido_1"`
	Apellido2          string `json:"apellido_2,omitempty"`
	IDCargo            int    `json:"id_cargo"`
	IDEstadoTrabajador int    `json:"id_estado_trabajador"`
	PrimerInicioSesion bool   `json:"primer_inicio_sesion"`
}
