// seed crea la cuenta de administrador inicial de la farmacia.
//
// Uso: go run ./cmd/seed -email admin@farmacia.local -password <secreto> [-name "Administrador"]
// Idempotente: si el email ya existe no hace nada.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/farmacia-pro/pkg/config"
)

func main() {
	email := flag.String("email", "admin@farmacia.local", "email del administrador")
	password := flag.String("password", "", "password del administrador (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre del administrador")
	flag.Parse()

	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "se requiere -password con al menos 8 caracteres")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewEmployeeRepository(pool)

	existing, err := repo.FindByEmail(*email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "consultar empleado: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Printf("el empleado %s ya existe, nada que hacer\n", *email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashear password: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	admin := &entity.Employee{
		ID:           uuid.New().String(),
		Email:        *email,
		PasswordHash: string(hash),
		Name:         *name,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(admin); err != nil {
		fmt.Fprintf(os.Stderr, "crear administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("administrador %s creado (id %s)\n", admin.Email, admin.ID)
}
