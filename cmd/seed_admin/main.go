// seed_admin genera el script SQL que crea (o reemplaza) al primer administrador.
// Sin administrador nadie puede dar de alta trabajadores desde la API.
//
// Uso: go run ./cmd/seed_admin -rut 12345678 -nombre "carla" -apellido1 "muñoz" [-apellido2 "pérez"]
// La contraseña inicial son los últimos 4 dígitos del RUT y se exige cambiarla en el primer login.
// Escribe: internal/infrastructure/postgres/migrations/003_seed_admin.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

type adminSeed struct {
	RUT       int64
	FirstName string
	LastName1 string
	LastName2 string
}

func main() {
	var seed adminSeed
	flag.Int64Var(&seed.RUT, "rut", 0, "RUT sin dígito verificador")
	flag.StringVar(&seed.FirstName, "nombre", "", "nombre")
	flag.StringVar(&seed.LastName1, "apellido1", "", "primer apellido")
	flag.StringVar(&seed.LastName2, "apellido2", "", "segundo apellido (opcional)")
	out := flag.String("out", "", "archivo de salida; por defecto la migración 003_seed_admin.sql")
	flag.Parse()

	if seed.RUT <= 0 || strings.TrimSpace(seed.FirstName) == "" || strings.TrimSpace(seed.LastName1) == "" {
		flag.Usage()
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(entity.InitialPassword(seed.RUT)), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "003_seed_admin.sql")
	}
	if err := os.WriteFile(outPath, []byte(buildSQL(seed, string(hash))), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: administrador %d (contraseña inicial %s)\n", outPath, seed.RUT, entity.InitialPassword(seed.RUT))
}

// buildSQL arma el INSERT idempotente del administrador. Los nombres se normalizan a
// mayúscula inicial con reglas del español.
func buildSQL(seed adminSeed, hash string) string {
	title := cases.Title(language.Spanish)
	lastName2 := "NULL"
	if s := strings.TrimSpace(seed.LastName2); s != "" {
		lastName2 = "'" + escapeSQL(title.String(s)) + "'"
	}

	var b strings.Builder
	b.WriteString("-- Primer administrador (generado por cmd/seed_admin)\n")
	b.WriteString("INSERT INTO workers (rut, first_name, last_name_1, last_name_2, password_hash, role_id, employment_status_id, must_change_password)\n")
	fmt.Fprintf(&b, "VALUES (%d, '%s', '%s', %s, '%s', %d, %d, TRUE)\n",
		seed.RUT,
		escapeSQL(title.String(strings.TrimSpace(seed.FirstName))),
		escapeSQL(title.String(strings.TrimSpace(seed.LastName1))),
		lastName2,
		escapeSQL(hash),
		entity.RoleAdministrator,
		entity.EmploymentStatusActive,
	)
	b.WriteString("ON CONFLICT (rut) DO UPDATE SET role_id = EXCLUDED.role_id, employment_status_id = EXCLUDED.employment_status_id;\n")
	return b.String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
