package entity

import (
	"fmt"
	"strings"
)

// RoleID referencia al catálogo de cargos.
type RoleID int

// Cargos conocidos por la aplicación. Solo RoleAdministrator tiene privilegios.
const (
	RoleAdministrator RoleID = 1
	RoleWorker        RoleID = 2
)

// EmploymentStatusID referencia al catálogo de estados del trabajador.
type EmploymentStatusID int

// EmploymentStatusActive es el único estado que permite iniciar sesión.
const EmploymentStatusActive EmploymentStatusID = 1

// Worker representa a un trabajador de la faena. El RUT es su identidad única.
type Worker struct {
	RUT                int64
	FirstName          string
	LastName1          string
	LastName2          string // opcional; "" se persiste como NULL
	PasswordHash       string // bcrypt
	RoleID             RoleID
	EmploymentStatusID EmploymentStatusID
	MustChangePassword bool
}

// FullName nombre completo para mostrar y para la bitácora.
func (w *Worker) FullName() string {
	parts := []string{w.FirstName, w.LastName1}
	if w.LastName2 != "" {
		parts = append(parts, w.LastName2)
	}
	return strings.Join(parts, " ")
}

// IsActive informa si el trabajador puede operar.
func (w *Worker) IsActive() bool {
	return w.EmploymentStatusID == EmploymentStatusActive
}

// InitialPassword devuelve la contraseña inicial de un trabajador: los últimos 4 dígitos del RUT.
func InitialPassword(rut int64) string {
	if rut < 0 {
		rut = -rut
	}
	return fmt.Sprintf("%04d", rut%10000)
}
