package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"dentalclinic/internal/config"
	"dentalclinic/internal/database"
	"dentalclinic/internal/domain"
	"dentalclinic/internal/modules/auth"
	"dentalclinic/internal/modules/booking"
	"dentalclinic/internal/modules/notification"
	"dentalclinic/internal/modules/order"
	"dentalclinic/internal/modules/product"
	jwtsvc "dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/pkg/logger"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var demoProducts = []product.ProductRequest{
	{Name: "Sonic toothbrush", SKU: "BR-SONIC", Category: "brushes", PriceCents: 8900, Stock: 12},
	{Name: "Whitening kit", SKU: "WH-KIT", Category: "whitening", PriceCents: 4500, Stock: 4},
	{Name: "Water flosser", SKU: "FL-WATER", Category: "floss", PriceCents: 6200, Stock: 8},
	{Name: "Mint floss 50m", SKU: "FL-MINT", Category: "floss", PriceCents: 450, Stock: 60},
	{Name: "Sensitive toothpaste", SKU: "TP-SENS", Category: "paste", PriceCents: 790, Stock: 2},
}

var demoServices = []string{"Check-up", "Cleaning", "Whitening", "Filling", "Implant consultation"}

func main() {
	var (
		reset         bool
		adminEmail    string
		adminPassword string
	)
	flag.BoolVar(&reset, "reset", false, "delete existing bookings, orders, products and notifications first")
	flag.StringVar(&adminEmail, "admin-email", "admin@dentalclinic.local", "admin login")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	if reset {
		if err := resetData(db); err != nil {
			lg.Fatal("reset failed", zap.Error(err))
		}
		lg.Info("old data removed")
	}

	authService := auth.NewService(repository.NewUserRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL), lg)
	switch _, err := authService.CreateAdmin(ctx, adminEmail, adminPassword, "Clinic admin"); {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		lg.Info("admin already exists", zap.String("email", adminEmail))
	case err != nil:
		lg.Fatal("create admin failed", zap.Error(err))
	default:
		lg.Info("admin created", zap.String("email", adminEmail))
	}

	productRepo := repository.NewProductRepository(db)
	notifications := notification.NewService(repository.NewNotificationRepository(db), nil, lg)
	products := product.NewService(productRepo, lg)
	bookings := booking.NewService(repository.NewBookingRepository(db), notifications, cfg.Location(), lg)
	orders := order.NewService(repository.NewOrderRepository(db), productRepo, notifications, lg)

	var created []*domain.Product
	for _, req := range demoProducts {
		p, err := products.Create(ctx, req)
		if errors.Is(err, product.ErrDuplicate) {
			lg.Info("product exists, skipping", zap.String("sku", req.SKU))
			continue
		}
		if err != nil {
			lg.Fatal("create product failed", zap.String("sku", req.SKU), zap.Error(err))
		}
		created = append(created, p)
	}

	start := time.Now().In(cfg.Location()).AddDate(0, 0, 1)
	for i, service := range demoServices {
		day := start.AddDate(0, 0, i)
		_, err := bookings.Create(ctx, booking.CreateBookingRequest{
			Name:    "Demo patient " + string(rune('A'+i)),
			Phone:   "+7700000000" + string(rune('0'+i)),
			Service: service,
			Date:    day.Format("2006-01-02"),
			Time:    "10:00",
		})
		if err != nil {
			lg.Fatal("create booking failed", zap.Error(err))
		}
	}

	if len(created) >= 2 {
		_, err := orders.Checkout(ctx, order.CheckoutRequest{
			CustomerName: "Demo customer",
			Email:        "customer@example.com",
			Address:      "Abay ave 10, Almaty",
			Items: []order.CheckoutItem{
				{ProductID: created[0].ID, Quantity: 1},
				{ProductID: created[1].ID, Quantity: 2},
			},
		})
		if err != nil {
			lg.Fatal("create order failed", zap.Error(err))
		}
	}

	if _, err := notifications.NotifySystem(ctx, "Welcome to the Admin Panel", "Demo data is ready."); err != nil {
		lg.Fatal("create notification failed", zap.Error(err))
	}

	lg.Info("seed completed",
		zap.Int("products", len(created)),
		zap.Int("bookings", len(demoServices)),
	)
}

func resetData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"notifications", "order_items", "orders", "bookings", "products"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
