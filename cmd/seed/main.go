// seed puebla la base con datos de demostración: usuarios (uno por rol),
// catálogo de abarrotes y stock inicial con su entrada en el historial.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (DATABASE_URL o DB_*). Es idempotente:
// los registros ya existentes se saltan.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/pkg/config"
)

var seedUsers = []dto.CreateUserRequest{
	{Email: "cliente@demo.local", Name: "Cliente Demo", Role: entity.RoleCustomer},
	{Email: "tsu@demo.local", Name: "Técnico de Turno", Role: entity.RoleTSU},
	{Email: "sr@demo.local", Name: "Supervisor de Reparto", Role: entity.RoleSR},
	{Email: "ops@demo.local", Name: "Gerente de Operaciones", Role: entity.RoleOpsManager},
}

type seedProduct struct {
	name        string
	description string
	price       string
	category    string
	quantity    int64
}

var seedProducts = []seedProduct{
	{"Harina de maíz 1kg", "Harina precocida de maíz blanco", "2.50", "abarrotes", 120},
	{"Arroz blanco 1kg", "Arroz de grano largo tipo I", "1.80", "abarrotes", 200},
	{"Pasta corta 500g", "Pasta de sémola", "1.20", "abarrotes", 150},
	{"Aceite vegetal 1L", "Aceite de soya", "4.90", "abarrotes", 80},
	{"Leche en polvo 400g", "Leche completa instantánea", "5.60", "lácteos", 60},
	{"Queso blanco 500g", "Queso fresco semiduro", "4.20", "lácteos", 35},
	{"Huevos (cartón 30)", "Huevos de gallina tamaño M", "6.00", "frescos", 50},
	{"Pollo entero (kg)", "Pollo beneficiado por kilo", "3.80", "frescos", 40},
	{"Plátano (kg)", "Plátano verde", "1.10", "frutas y verduras", 90},
	{"Tomate (kg)", "Tomate perita", "1.60", "frutas y verduras", 70},
	{"Café molido 250g", "Café tostado y molido", "3.40", "bebidas", 65},
	{"Azúcar 1kg", "Azúcar refinada", "1.50", "abarrotes", 180},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	changeRepo := postgres.NewStockChangeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	userUC := usecase.NewUserUseCase(userRepo)
	ledger := stock.NewLedgerUseCase(txRunner, stockRepo, changeRepo, productRepo)

	// 1. Usuarios
	var opsManagerID int64
	for _, u := range seedUsers {
		created, err := userUC.Create(u)
		if err == domain.ErrDuplicate {
			existing, err := userRepo.GetByEmail(u.Email)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Buscar usuario %s: %v\n", u.Email, err)
				os.Exit(1)
			}
			if existing.Role == entity.RoleOpsManager {
				opsManagerID = existing.ID
			}
			fmt.Printf("Usuario %s ya existe, saltado\n", u.Email)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear usuario %s: %v\n", u.Email, err)
			os.Exit(1)
		}
		if created.Role == entity.RoleOpsManager {
			opsManagerID = created.ID
		}
		fmt.Printf("Usuario creado: %s (%s)\n", created.Email, created.Role)
	}

	// 2. Catálogo + stock inicial (el historial registra el alta como "manual")
	now := time.Now()
	var createdCount int
	for _, sp := range seedProducts {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Precio inválido %q: %v\n", sp.price, err)
			os.Exit(1)
		}
		existing, err := productRepo.Search(sp.name, 1, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Buscar producto %s: %v\n", sp.name, err)
			os.Exit(1)
		}
		if len(existing) > 0 && existing[0].Name == sp.name {
			fmt.Printf("Producto %s ya existe, saltado\n", sp.name)
			continue
		}
		product := &entity.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       price,
			Category:    sp.category,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := productRepo.Create(product); err != nil {
			fmt.Fprintf(os.Stderr, "Crear producto %s: %v\n", sp.name, err)
			os.Exit(1)
		}
		if _, err := ledger.SetQuantity(ctx, dto.SetStockRequest{
			ProductID: product.ID,
			Quantity:  sp.quantity,
			Kind:      entity.ChangeKindManual,
		}, opsManagerID); err != nil {
			fmt.Fprintf(os.Stderr, "Stock inicial %s: %v\n", sp.name, err)
			os.Exit(1)
		}
		createdCount++
	}

	fmt.Printf("Seed completo: %d productos nuevos con stock inicial\n", createdCount)
}
